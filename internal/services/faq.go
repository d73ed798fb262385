package services

// FAQEntry is a static answer shown from the FAQ menu.
type FAQEntry struct {
	ID       string
	Question string
	Answer   string
}

var faqEntries = []FAQEntry{
	{
		ID:       "what_is_qadha",
		Question: "What is Qadha?",
		Answer: "Qadha is making up an obligatory prayer that was not performed in its time. " +
			"Every missed fard prayer stays owed until it is made up.",
	},
	{
		ID:       "niyyah",
		Question: "How do I make the intention (Niyyah) for a Qadha prayer?",
		Answer: "Intend in your heart the specific prayer you are making up, for example " +
			"\"the first Fajr I missed\" or \"the last Dhuhr I missed\". Saying it aloud is not required.",
	},
	{
		ID:       "order",
		Question: "In what order should I make up prayers?",
		Answer: "Pray the current prayer on time first. Qadha prayers can then be made up at any time " +
			"outside the forbidden times. Many people pray one Qadha after each daily prayer.",
	},
	{
		ID:       "witr",
		Question: "Why is Witr tracked only for some users?",
		Answer: "In the Hanafi madhab Witr is wajib and is made up like an obligatory prayer. " +
			"In the Maliki, Shafi'i and Hanbali schools it is sunnah, so it is not counted as Qadha.",
	},
	{
		ID:       "menstruation",
		Question: "Do I owe prayers for days of menstruation or post-natal bleeding?",
		Answer: "No. Prayer is not obligatory during menstruation or post-natal bleeding and those days " +
			"are not made up. The estimate removes them using your cycle length and childbirth answers.",
	},
	{
		ID:       "jummah",
		Question: "Does Jummah count instead of Dhuhr?",
		Answer: "Yes. On a Friday when you attended Jummah you do not owe Dhuhr, so those Fridays are " +
			"removed from your Dhuhr count.",
	},
	{
		ID:       "estimate",
		Question: "How is my Qadha estimated?",
		Answer: "Each year you did not pray regularly counts 365 days for every prayer you did not keep. " +
			"Prayers you kept, Jummah attendance and praying during Ramadan are then subtracted.",
	},
}

// FAQ returns the static FAQ in display order.
func FAQ() []FAQEntry {
	out := make([]FAQEntry, len(faqEntries))
	copy(out, faqEntries)
	return out
}

func FindFAQ(id string) (FAQEntry, bool) {
	for _, e := range faqEntries {
		if e.ID == id {
			return e, true
		}
	}
	return FAQEntry{}, false
}
