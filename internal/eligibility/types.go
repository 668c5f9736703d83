// Package eligibility models the discount and benefit programs a user can
// claim, and their serialized form in the user-preferences record.
package eligibility

// Type identifies a discount/benefit program category.
type Type string

const (
	TypeSnapEBT         Type = "snap_ebt"
	TypeMilitary        Type = "military"
	TypeVeteran         Type = "veteran"
	TypeStudent         Type = "student"
	TypeTeacher         Type = "teacher"
	TypeLibraryCard     Type = "library_card"
	TypeCorporateMember Type = "corporate_member"
	TypeCityPass        Type = "city_pass"
	TypeResident        Type = "resident"
	TypeDateOfBirth     Type = "date_of_birth"
	TypeMuseumMember    Type = "museum_membership"
	TypeBofAMuseumsOnUs Type = "bofa_museums_on_us"
	TypeFirstResponder  Type = "first_responder"
	TypeHealthcare      Type = "healthcare_worker"
)

// Detail names the payload shape an eligibility type carries.
type Detail string

const (
	DetailNone        Detail = ""
	DetailSchools     Detail = "schools"
	DetailLibraries   Detail = "libraries"
	DetailCompanies   Detail = "companies"
	DetailCities      Detail = "cities"
	DetailLocations   Detail = "locations"
	DetailDateOfBirth Detail = "date_of_birth"
	DetailMemberships Detail = "museum_memberships"
)

// Info describes one eligibility type for UI display.
type Info struct {
	Type        Type   `json:"type"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Detail      Detail `json:"detail,omitempty"`
}

// Catalog lists every supported eligibility type in declaration order.
// Discount rows produced by the evaluator follow this ordering, so the UI
// lists consistently across museums.
var Catalog = []Info{
	{Type: TypeSnapEBT, Label: "SNAP / EBT", Icon: "credit-card", Description: "SNAP or EBT cardholder (Museums for All)"},
	{Type: TypeMilitary, Label: "Active Military", Icon: "shield", Description: "Active duty military and immediate family"},
	{Type: TypeVeteran, Label: "Veteran", Icon: "medal", Description: "U.S. military veteran"},
	{Type: TypeStudent, Label: "Student", Icon: "graduation-cap", Description: "Enrolled student with valid ID", Detail: DetailSchools},
	{Type: TypeTeacher, Label: "Teacher", Icon: "book-open", Description: "K-12 or university educator", Detail: DetailSchools},
	{Type: TypeLibraryCard, Label: "Library Card", Icon: "library", Description: "Library cardholder (culture pass programs)", Detail: DetailLibraries},
	{Type: TypeCorporateMember, Label: "Corporate Member", Icon: "briefcase", Description: "Employee of a corporate member company", Detail: DetailCompanies},
	{Type: TypeCityPass, Label: "City Pass", Icon: "ticket", Description: "City attraction pass holder", Detail: DetailCities},
	{Type: TypeResident, Label: "Resident", Icon: "home", Description: "Resident of a qualifying city or state", Detail: DetailLocations},
	{Type: TypeDateOfBirth, Label: "Age-Based", Icon: "cake", Description: "Senior, youth and child pricing by date of birth", Detail: DetailDateOfBirth},
	{Type: TypeMuseumMember, Label: "Museum Member", Icon: "badge-check", Description: "Member of a participating museum", Detail: DetailMemberships},
	{Type: TypeBofAMuseumsOnUs, Label: "Museums on Us", Icon: "landmark", Description: "Bank of America cardholder (first full weekend of each month)"},
	{Type: TypeFirstResponder, Label: "First Responder", Icon: "siren", Description: "Police, fire and EMS personnel"},
	{Type: TypeHealthcare, Label: "Healthcare Worker", Icon: "heart-pulse", Description: "Hospital and healthcare staff", Detail: DetailCompanies},
}

var catalogByType = func() map[Type]Info {
	m := make(map[Type]Info, len(Catalog))
	for _, info := range Catalog {
		m[info.Type] = info
	}
	return m
}()

// Lookup returns the catalog entry for t.
func Lookup(t Type) (Info, bool) {
	info, ok := catalogByType[t]
	return info, ok
}

// Valid reports whether t is a known eligibility type.
func Valid(t Type) bool {
	_, ok := catalogByType[t]
	return ok
}
