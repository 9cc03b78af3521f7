package types

// ContactSubmission is the inbound payload of the contact form. The Honeypot
// field is hidden from real users; a non-empty value marks an automated sender.
type ContactSubmission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject,omitempty"`
	Message        string `json:"message"`
	Phone          string `json:"phone,omitempty"`
	Honeypot       string `json:"honeypot,omitempty"`
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

// ContactMessage is the validated record relayed to the CMS. The CMS owns the
// record's identifier and timestamps; nothing is retained in-process.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Phone   string `json:"phone,omitempty"`
}
