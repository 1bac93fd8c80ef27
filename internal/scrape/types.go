// Package scrape normalizes raw page markup into a bounded content model.
package scrape

// Link is one outbound anchor kept in the content model.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// PageContent is the bounded, structured record extracted from one page.
// All field caps are enforced here; downstream consumers never truncate.
type PageContent struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	MainContent     string   `json:"mainContent"`
	Headings        []string `json:"headings"`
	Paragraphs      []string `json:"paragraphs"`
	Links           []Link   `json:"links"`
}

// Limits caps every bounded PageContent field.
type Limits struct {
	MaxContentChars int
	MaxHeadings     int
	MaxParagraphs   int
	MaxLinks        int
}

// DefaultLimits returns the caps used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxContentChars: 5000,
		MaxHeadings:     10,
		MaxParagraphs:   10,
		MaxLinks:        20,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxContentChars <= 0 {
		l.MaxContentChars = d.MaxContentChars
	}
	if l.MaxHeadings <= 0 {
		l.MaxHeadings = d.MaxHeadings
	}
	if l.MaxParagraphs <= 0 {
		l.MaxParagraphs = d.MaxParagraphs
	}
	if l.MaxLinks <= 0 {
		l.MaxLinks = d.MaxLinks
	}
	return l
}
