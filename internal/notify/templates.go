package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template statuses and names. The dispatcher looks templates up by the
// submission status value; endpoint handlers look them up by name directly.
const (
	TemplateWelcome             = "welcome"
	TemplatePaymentRequested    = "payment_requested"
	TemplatePaymentConfirmed    = "payment_confirmed"
	TemplateVerificationStarted = "verification_started"
	TemplateCompleted           = "completed"
	TemplateFeedbackRequested   = "feedback_requested"
)

// TemplateData carries the fields templates may interpolate. Zero values
// render as empty strings.
type TemplateData struct {
	Name        string
	WebsiteName string
	WebsiteURL  string
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

// Registry maps template names to renderable email templates. Statuses with
// no registered template are deliberate no-ops for the dispatcher.
type Registry struct {
	templates map[string]emailTemplate
}

type templateSource struct {
	subject string
	body    string
}

var builtinTemplates = map[string]templateSource{
	TemplateWelcome: {
		subject: "Welcome to LaunchDir{{if .Name}}, {{.Name}}{{end}}!",
		body: `<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
<p>Thanks for signing up. We help you get your product listed across the web's best directories.</p>
<p>Submit your first website whenever you're ready.</p>
<p>The LaunchDir team</p>`,
	},
	TemplatePaymentRequested: {
		subject: "Complete your payment for {{.WebsiteName}}",
		body: `<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
<p>Your submission for <strong>{{.WebsiteName}}</strong> is ready. Complete your payment to start the directory submission process.</p>
<p>The LaunchDir team</p>`,
	},
	TemplatePaymentConfirmed: {
		subject: "Payment received for {{.WebsiteName}}",
		body: `<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
<p>We've received your payment for <strong>{{.WebsiteName}}</strong>. We'll begin verifying your listing details shortly.</p>
<p>The LaunchDir team</p>`,
	},
	TemplateVerificationStarted: {
		subject: "We're verifying {{.WebsiteName}}",
		body: `<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
<p>Verification has started for <strong>{{.WebsiteName}}</strong>. We'll let you know as soon as your submissions are underway.</p>
<p>The LaunchDir team</p>`,
	},
	TemplateCompleted: {
		subject: "{{.WebsiteName}} has been submitted",
		body: `<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
<p>Good news: directory submissions for <strong>{{.WebsiteName}}</strong> are complete.</p>
<p>Expect listings to appear over the coming days as directories review them.</p>
<p>The LaunchDir team</p>`,
	},
	TemplateFeedbackRequested: {
		subject: "How did we do with {{.WebsiteName}}?",
		body: `<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
<p>Your submissions for <strong>{{.WebsiteName}}</strong> wrapped up recently. We'd love to hear how it went.</p>
<p>Reply to this email with any feedback.</p>
<p>The LaunchDir team</p>`,
	},
}

// NewRegistry parses the built-in templates. Parse errors are programmer
// errors and panic at startup.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]emailTemplate, len(builtinTemplates))}
	for name, src := range builtinTemplates {
		r.templates[name] = emailTemplate{
			subject: template.Must(template.New(name + "_subject").Parse(src.subject)),
			body:    template.Must(template.New(name + "_body").Parse(src.body)),
		}
	}
	return r
}

// Has reports whether a template is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render produces the subject and HTML body for a named template.
func (r *Registry) Render(name string, data TemplateData) (subject, body string, err error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", "", fmt.Errorf("no template registered for %q", name)
	}
	var subjBuf, bodyBuf bytes.Buffer
	if err := tmpl.subject.Execute(&subjBuf, data); err != nil {
		return "", "", fmt.Errorf("render subject for %q: %w", name, err)
	}
	if err := tmpl.body.Execute(&bodyBuf, data); err != nil {
		return "", "", fmt.Errorf("render body for %q: %w", name, err)
	}
	return subjBuf.String(), bodyBuf.String(), nil
}
