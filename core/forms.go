package core

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FormField represents a parsed HTML form field.
type FormField struct {
	Name  string
	Value string
}

// Form is an HTML form ready to be submitted.
type Form struct {
	Action string
	Method string
	Fields []FormField
}

// Values returns the fields as url.Values with overrides applied.
func (f Form) Values(overrides map[string]string) url.Values {
	values := url.Values{}
	for _, field := range f.Fields {
		values.Set(field.Name, field.Value)
	}
	for k, v := range overrides {
		values.Set(k, v)
	}
	return values
}

// ParseForm reads action, method and successful controls of a form
// selection. The first named submit button is included, since some
// applications only act when it is present.
func ParseForm(sel *goquery.Selection, base *url.URL) (Form, bool) {
	if sel == nil || sel.Length() == 0 {
		return Form{}, false
	}
	action := strings.TrimSpace(sel.AttrOr("action", ""))
	resolved := action
	if base != nil {
		ref, err := url.Parse(action)
		if err != nil {
			return Form{}, false
		}
		resolved = base.ResolveReference(ref).String()
	}
	if resolved == "" {
		return Form{}, false
	}

	method := strings.ToUpper(strings.TrimSpace(sel.AttrOr("method", http.MethodGet)))
	if method == "" {
		method = http.MethodGet
	}
	return Form{Action: resolved, Method: method, Fields: extractFormFields(sel)}, true
}

func extractFormFields(sel *goquery.Selection) []FormField {
	var fields []FormField
	submitted := false

	sel.Find("input").Each(func(_ int, s *goquery.Selection) {
		name, exists := s.Attr("name")
		if !exists {
			return
		}
		value := s.AttrOr("value", "")
		switch strings.ToLower(s.AttrOr("type", "")) {
		case "checkbox", "radio":
			if _, ok := s.Attr("checked"); !ok {
				return
			}
			if value == "" {
				value = "on"
			}
		case "submit":
			if submitted {
				return
			}
			submitted = true
		case "button", "image", "reset", "file":
			return
		}
		fields = append(fields, FormField{Name: name, Value: value})
	})

	sel.Find("textarea").Each(func(_ int, s *goquery.Selection) {
		if name, exists := s.Attr("name"); exists {
			fields = append(fields, FormField{Name: name, Value: strings.TrimSpace(s.Text())})
		}
	})

	sel.Find("select").Each(func(_ int, s *goquery.Selection) {
		name, exists := s.Attr("name")
		if !exists {
			return
		}
		value := ""
		s.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
			if _, selected := opt.Attr("selected"); selected {
				value = opt.AttrOr("value", strings.TrimSpace(opt.Text()))
				return false
			}
			if value == "" {
				value = opt.AttrOr("value", strings.TrimSpace(opt.Text()))
			}
			return true
		})
		fields = append(fields, FormField{Name: name, Value: value})
	})

	return fields
}

// InputNames lists the distinct name attributes of input, textarea and
// select elements anywhere in the document, in document order.
func InputNames(doc *goquery.Document) []string {
	if doc == nil {
		return nil
	}
	var names []string
	seen := make(map[string]struct{})
	doc.Find("input[name], textarea[name], select[name]").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", "")
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	})
	return names
}
