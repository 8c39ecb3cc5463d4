// Package directory turns a Google People directory listing into the contact
// list shown by the dashboard: fetch, normalize, sort, and live search.
package directory

// Payload is the body served by the directory endpoint.
type Payload struct {
	People []RawContact `json:"people"`
}

// RawContact mirrors the subset of a People API Person the dashboard reads.
// Every field may be absent.
type RawContact struct {
	ResourceName   string         `json:"resourceName,omitempty"`
	Names          []Name         `json:"names,omitempty"`
	PhoneNumbers   []PhoneNumber  `json:"phoneNumbers,omitempty"`
	EmailAddresses []EmailAddress `json:"emailAddresses,omitempty"`
	Organizations  []Organization `json:"organizations,omitempty"`
	Photos         []Photo        `json:"photos,omitempty"`
}

type Name struct {
	DisplayName string `json:"displayName,omitempty"`
	GivenName   string `json:"givenName,omitempty"`
	FamilyName  string `json:"familyName,omitempty"`
}

type PhoneNumber struct {
	Value         string `json:"value,omitempty"`
	CanonicalForm string `json:"canonicalForm,omitempty"`
	Type          string `json:"type,omitempty"`
}

type EmailAddress struct {
	Value string `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`
}

type Organization struct {
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
}

type Photo struct {
	URL     string `json:"url,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// ContactRecord is one colleague row. Empty optional fields mean absent.
type ContactRecord struct {
	Name       string   `json:"name"`
	Phones     []string `json:"phones"`
	Email      string   `json:"email,omitempty"`
	Position   string   `json:"position,omitempty"`
	Department string   `json:"department,omitempty"`
	Img        string   `json:"img,omitempty"`
}

// Phase is the lifecycle stage of a directory view.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseLoginRequired Phase = "login-required"
	// PhaseFailed marks bad upstream data; the session itself is fine.
	PhaseFailed Phase = "failed"
)

// View is an immutable snapshot of the directory state handed to renderers.
type View struct {
	Phase        Phase
	Canonical    []ContactRecord
	Visible      []ContactRecord
	Query        string
	ErrorMessage string
}
