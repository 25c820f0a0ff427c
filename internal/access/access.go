// Package access decides which pages a role may open.  The permission
// table is static and total: every (page, role) pair has an answer, and
// anything not listed is denied.
package access

import "github.com/iliyamo/pet-shelter/internal/model"

// Page identifies a dispatchable page.
type Page int

const (
	Dashboard Page = iota + 1
	ViewPets
	RegisterPet
	ManagePets
	AddApplication
	ManageApplications
	ManageMyApplications
	ManagePayments
	AddUser
	ManageUsers
	RequestWorkerRole
	ViewWorkerApplications
	Analytics
	ViewAllData
)

type pageInfo struct {
	name     string
	template string
	label    string
}

// pages is in navigation order; Dashboard must stay first.
var pages = []struct {
	page Page
	info pageInfo
}{
	{Dashboard, pageInfo{"dashboard", "dashboard.html", "Dashboard"}},
	{ViewPets, pageInfo{"view_pets", "view_pets.html", "View Pets"}},
	{RegisterPet, pageInfo{"register_pet", "register_pet.html", "Register Pet"}},
	{ManagePets, pageInfo{"manage_pets", "manage_pets.html", "Manage Pets"}},
	{AddApplication, pageInfo{"add_application", "add_application.html", "Submit Application"}},
	{ManageApplications, pageInfo{"manage_applications", "manage_applications.html", "Manage Applications"}},
	{ManageMyApplications, pageInfo{"manage_my_applications", "manage_my_applications.html", "My Applications"}},
	{ManagePayments, pageInfo{"manage_payments", "manage_payments.html", "Manage Payments"}},
	{AddUser, pageInfo{"add_user", "add_user.html", "Add User"}},
	{ManageUsers, pageInfo{"manage_users", "manage_users.html", "Manage Users"}},
	{RequestWorkerRole, pageInfo{"request_worker_role", "request_worker_role.html", "Request Worker Role"}},
	{ViewWorkerApplications, pageInfo{"view_worker_applications", "view_worker_applications.html", "Worker Requests"}},
	{Analytics, pageInfo{"analytics", "analytics.html", "Analytics"}},
	{ViewAllData, pageInfo{"view_all_data", "view_all_data.html", "All Data"}},
}

var (
	byPage = make(map[Page]pageInfo, len(pages))
	byName = make(map[string]Page, len(pages))
)

func init() {
	for _, p := range pages {
		byPage[p.page] = p.info
		byName[p.info.name] = p.page
	}
}

// ParsePage resolves a URL page name.
func ParsePage(name string) (Page, bool) {
	p, ok := byName[name]
	return p, ok
}

func (p Page) String() string   { return byPage[p].name }
func (p Page) Template() string { return byPage[p].template }
func (p Page) Label() string    { return byPage[p].label }

// All returns every page in navigation order.
func All() []Page {
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = p.page
	}
	return out
}

func set(ps ...Page) map[Page]bool {
	m := make(map[Page]bool, len(ps))
	for _, p := range ps {
		m[p] = true
	}
	return m
}

var customerPages = []Page{Dashboard, ViewPets, AddApplication, ManageMyApplications, RequestWorkerRole}

var permissions = map[string]map[Page]bool{
	model.RoleAdmin: set(All()...),
	model.RoleShelterWorker: set(Dashboard, ViewPets, RegisterPet, ManagePets, AddApplication,
		ManageApplications, ManagePayments, RequestWorkerRole, Analytics, ViewAllData),
	model.RoleAdopter: set(customerPages...),
	model.RoleGeneral: set(customerPages...),
}

// HasAccess reports whether role may open p.  Unknown roles and unknown
// pages are denied.
func HasAccess(p Page, role string) bool {
	return permissions[role][p]
}

// Allowed is HasAccess keyed by page name.
func Allowed(pageName, role string) bool {
	p, ok := ParsePage(pageName)
	return ok && HasAccess(p, role)
}

// NavItem is one entry of the navigation menu.
type NavItem struct {
	Label string `json:"label"`
	Page  string `json:"page"`
}

// NavMenu lists the pages role may open, Dashboard first.  Unknown roles
// get nil.
func NavMenu(role string) []NavItem {
	allowed, ok := permissions[role]
	if !ok {
		return nil
	}
	out := make([]NavItem, 0, len(allowed))
	for _, p := range pages {
		if allowed[p.page] {
			out = append(out, NavItem{Label: p.info.label, Page: p.info.name})
		}
	}
	return out
}
