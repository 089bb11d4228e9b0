package indexhandler

const (
	ViewIndex = "index"

	ContentRegistration = "content/registration.html"
	ContentEmployeeList = "content/employee-list.html"
	ContentSearch       = "search/search.html"
	ContentSalary       = "content/salary.html"
	ContentUpdateList   = "content/update-list.html"
	ContentUpdateForm   = "content/update-form.html"
	ContentLogin        = "content/login.html"
	ContentWelcome      = "content/welcome.html"
	ContentError        = "exception/error.html"
)

const (
	ActionRegister = "registro"
	ActionList     = "listado"
	ActionLookup   = "consulta"
	ActionUpdate   = "actualiza"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionWelcome  = "welcome"
)

const (
	RedirectLogin   = "/index?action=login"
	RedirectWelcome = "/index?action=welcome"
	RedirectCreated = "/index?action=listado&confirm-creation=1"
	RedirectUpdated = "/index?action=actualiza&confirm-update=1"
	RedirectDeleted = "/index?action=actualiza&confirm-deletion=1"
)
