// Package auditoria carries the acting-user metadata attached to domain
// events. The fields are for audit display only and never influence Apply
// logic.
package auditoria

// Actor identifies the user behind a command. Both fields are optional;
// migrations and system jobs emit events without an actor.
type Actor struct {
	ActorID     string `json:"actor_id,omitempty"`
	ActorNombre string `json:"actor_nombre,omitempty"`
}
