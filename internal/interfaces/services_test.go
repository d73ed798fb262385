package interfaces

import "github.com/vladimiradmaev/qadha-helper/internal/services"

var (
	_ UserServiceInterface    = (*services.UserService)(nil)
	_ ProfileServiceInterface = (*services.ProfileService)(nil)
	_ QadhaServiceInterface   = (*services.QadhaService)(nil)
	_ LedgerServiceInterface  = (*services.LedgerService)(nil)
	_ AIServiceInterface      = (*services.AIService)(nil)
)
