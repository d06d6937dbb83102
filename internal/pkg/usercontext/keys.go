package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyStaffID       = "staff_id"
	KeyStaffName     = "staff_name"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"
)
