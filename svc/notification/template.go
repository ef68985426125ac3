package notification

// Kind is the job discriminator stored in the envelope "type" field.
// Several job kinds may share a physical queue; a Processor only handles its own.
type Kind string

// KindEmail marks notification jobs delivered by email.
const KindEmail Kind = "email"

// Template identifies a notification variant and, through it, the payload shape.
type Template string

const (
	TemplateGeneric           Template = "generic"
	TemplateSignup            Template = "signup"
	TemplateSignupSucceeded   Template = "signup_succeeded"
	TemplatePasswordRecovery  Template = "password_recovery"
	TemplateResetConfirmation Template = "reset_confirmation"
	TemplateWelcome           Template = "welcome"
)

// Templates returns every known template in declaration order.
func Templates() []Template {
	return []Template{
		TemplateGeneric,
		TemplateSignup,
		TemplateSignupSucceeded,
		TemplatePasswordRecovery,
		TemplateResetConfirmation,
		TemplateWelcome,
	}
}

// Valid reports whether t is one of the known templates.
func (t Template) Valid() bool {
	switch t {
	case TemplateGeneric, TemplateSignup, TemplateSignupSucceeded,
		TemplatePasswordRecovery, TemplateResetConfirmation, TemplateWelcome:
		return true
	}
	return false
}

func (t Template) String() string { return string(t) }
