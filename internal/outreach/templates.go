// Package outreach renders and delivers lead-facing messages, and
// watches the inbox for replies.
package outreach

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/validate"
)

// TemplateData is everything a message template can reference. All
// fields are sanitized before rendering so a hostile business name
// can't smuggle headers into an email.
type TemplateData struct {
	BusinessName string
	City         string
	Service      string
	Sender       string
	Phone        string
}

type templatePair struct {
	chat  string
	email string
}

// Keyed "<kind>_<language>". Email bodies start with a Subject: line
// that Render splits off.
var messageTemplates = map[string]templatePair{
	"intro_english": {
		chat: `Hello {{.BusinessName}},

I'm {{.Sender}} from {{.City}}. We provide verified {{.Service}} workers with:

- 60-min arrival guarantee
- Pay after completion
- Quality certified

Can we offer you 1 FREE trial service?

Reply "YES" if interested.

Thanks,
{{.Sender}}`,
		email: `Subject: Professional {{.Service}} Support for {{.BusinessName}}

Dear {{.BusinessName}},

We specialize in on-demand {{.Service}} services in {{.City}}. Our offerings:

- Background-verified workers
- Same-day dispatch (within 60 minutes)
- Payment only after job completion
- Satisfaction guaranteed

First service is completely FREE as a trial.

May I schedule a quick 5-minute call with you?

Best regards,
{{.Sender}}
Phone: {{.Phone}}`,
	},

	"intro_hindi": {
		chat: `नमस्ते {{.BusinessName}} जी,

मैं {{.Sender}} हूँ। हम {{.City}} में {{.Service}} के लिए verified और trained workers भेजते हैं।

- 60 मिनट में पहुँच
- काम के बाद payment
- Quality guarantee

क्या हम आपको 1 free demo service दे सकते हैं?

Reply करें "हाँ" अगर interested हैं।

धन्यवाद,
{{.Sender}}`,
		email: `Subject: {{.City}} में Professional {{.Service}} Service

प्रिय {{.BusinessName}},

नमस्कार!

हम {{.City}} में professional {{.Service}} workers की supply करते हैं। हमारी विशेषताएं:

- Verified और trained workers
- Same-day service (60 मिनट में)
- काम complete होने के बाद payment
- 100% satisfaction guarantee

पहली service बिल्कुल FREE trial के रूप में।

क्या हम आपसे 5 मिनट बात कर सकते हैं?

सादर,
{{.Sender}}
Contact: {{.Phone}}`,
	},

	"followup_english": {
		chat: `Hi {{.BusinessName}},

Following up on our {{.Service}} service offer.

We're offering FREE trials to 5 new clients this week.

Interested?

{{.Sender}}`,
		email: `Subject: Following Up: {{.Service}} Service for {{.BusinessName}}

Dear {{.BusinessName}},

Just following up on our previous message about {{.Service}} services.

Would you be interested in a FREE trial?

Please let me know.

{{.Sender}}`,
	},

	"followup_hindi": {
		chat: `नमस्ते {{.BusinessName}},

Follow-up: क्या आपने हमारे {{.Service}} service के बारे में सोचा?

हम अभी 5 नए clients को FREE trial दे रहे हैं।

Interested हैं तो बताएं।

{{.Sender}}`,
		email: `Subject: Follow-up: {{.Service}} Service Trial

प्रिय {{.BusinessName}},

आपसे पिछली बार contact किया था {{.Service}} service के बारे में।

क्या आप FREE trial में interested होंगे?

कृपया reply करें।

{{.Sender}}`,
	},
}

// TemplateNames lists the known template keys, sorted, for help text.
func TemplateNames() []string {
	names := make([]string, 0, len(messageTemplates))
	for k := range messageTemplates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Rendered is a channel-ready message. Subject is empty for chat.
type Rendered struct {
	Subject string
	Body    string
}

// Render formats the named template for a channel. Template fields are
// clamped through the same sanitizer the ingest path uses.
func Render(name string, ch domain.Channel, data TemplateData) (Rendered, error) {
	pair, ok := messageTemplates[name]
	if !ok {
		return Rendered{}, fmt.Errorf("outreach: unknown template %q (have %s)",
			name, strings.Join(TemplateNames(), ", "))
	}

	data.BusinessName = orDefault(validate.String(data.BusinessName, 100), "Sir/Madam")
	data.City = validate.String(data.City, 50)
	data.Service = validate.String(data.Service, 50)
	data.Sender = orDefault(validate.String(data.Sender, 50), "Team")
	data.Phone = validate.String(data.Phone, validate.MaxPhone)

	var raw string
	switch ch {
	case domain.ChannelChat:
		raw = pair.chat
	case domain.ChannelEmail:
		raw = pair.email
	default:
		return Rendered{}, fmt.Errorf("outreach: unknown channel %q", ch)
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return Rendered{}, fmt.Errorf("outreach: parse template %s: %w", name, err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return Rendered{}, fmt.Errorf("outreach: render template %s: %w", name, err)
	}

	out := Rendered{Body: buf.String()}
	if ch == domain.ChannelEmail {
		out.Subject, out.Body = splitSubject(out.Body)
	}
	return out, nil
}

// splitSubject peels a leading "Subject:" line off an email body. A
// body without one gets a generic subject.
func splitSubject(body string) (string, string) {
	lines := strings.SplitN(body, "\n", 2)
	if !strings.HasPrefix(lines[0], "Subject:") {
		return "Business Inquiry", body
	}
	subject := strings.TrimSpace(strings.TrimPrefix(lines[0], "Subject:"))
	rest := ""
	if len(lines) == 2 {
		rest = strings.TrimPrefix(lines[1], "\n")
	}
	return subject, rest
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
