// Package validator builds field validation out of small composable rules.
//
// A Rule pairs a Check func with the ValidationError reported when the check
// fails. Apply runs a set of rules and collects every failure into
// ValidationErrors, which implements error:
//
//	err := validator.Apply(
//		validator.ValidEmail("to", p.To),
//		validator.RequiredString("code", p.Code),
//		validator.MaxNum("max_attempts", n, 25),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		for field, messages := range verrs.Map() {
//			...
//		}
//	}
//
// Rules are plain values with no shared state and are safe to build from any
// goroutine. Each failure carries a stable Code ("required", "email", "min",
// ...) so HTTP layers can render them without parsing messages.
package validator
