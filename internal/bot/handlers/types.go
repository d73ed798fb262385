package handlers

import (
	"time"

	"github.com/vladimiradmaev/qadha-helper/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService interfaces.UserServiceInterface
	ProfileSvc  interfaces.ProfileServiceInterface
	QadhaSvc    interfaces.QadhaServiceInterface
	LedgerSvc   interfaces.LedgerServiceInterface
	AISvc       interfaces.AIServiceInterface
	// Now defaults to time.Now.
	Now func() time.Time
}
