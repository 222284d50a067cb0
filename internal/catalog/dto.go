package catalog

// PageResponse is the body of a character search
type PageResponse struct {
	Info    Info        `json:"info"`
	Results []Character `json:"results"`
}

// Info carries pagination metadata
type Info struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"` // nil on the last page
	Prev  *string `json:"prev"` // nil on the first page
}

// NamedRef is a link to a related resource
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character is a character as returned by the API
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   NamedRef `json:"origin"`
	Location NamedRef `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url,omitempty"`
	Created  string   `json:"created,omitempty"`
}

// ErrorResponse is the body of a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
