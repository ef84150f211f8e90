package chat

// Phase is the conversation store's position in its lifecycle.
type Phase int

const (
	PhaseIdle     Phase = iota // no session selected, nothing in flight
	PhaseLoading               // transcript fetch in flight
	PhaseReady                 // transcript settled
	PhaseAwaiting              // query in flight
)

// Orchestrator owns the active session id and its transcript, and decides
// which responses are allowed to touch them. All mutation goes through the
// Begin*/Apply*/Fail* pairs: Begin* records what a request was issued
// against, Apply*/Fail* check that record before changing anything.
//
// The one correctness-critical rule lives here: a response is applied only if
// the session it was issued for is still the active session AND the
// orchestrator is still waiting on that kind of response. Anything else is
// dropped without a trace, so a slow request from an abandoned session can
// never write into the session the user switched to.
//
// The orchestrator does no I/O and is safe for the single-threaded event loop
// it is built for; callers run the network half elsewhere and feed results
// back in.
type Orchestrator struct {
	active     int64 // 0 = no session selected
	transcript []Message
	phase      Phase
}

// NewOrchestrator starts with no session and an empty transcript.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{phase: PhaseIdle}
}

// Active returns the current session id, 0 when none.
func (o *Orchestrator) Active() int64 { return o.active }

// Phase returns the current lifecycle phase.
func (o *Orchestrator) Phase() Phase { return o.phase }

// Transcript returns the current transcript. The slice is owned by the
// orchestrator; callers render it, they do not mutate it.
func (o *Orchestrator) Transcript() []Message { return o.transcript }

// Busy reports whether a request is in flight.
func (o *Orchestrator) Busy() bool {
	return o.phase == PhaseLoading || o.phase == PhaseAwaiting
}

// BeginSelect switches the active session. The transcript is cleared before
// the fetch goes out, so a switch is never observed with content from two
// sessions at once. Returns the id the history fetch must be issued for.
func (o *Orchestrator) BeginSelect(id int64) int64 {
	o.active = id
	o.transcript = nil
	o.phase = PhaseLoading
	return id
}

// ApplyHistory installs a fetched transcript. Returns false when the result
// is stale (the user moved on, or nothing is loading) and was dropped.
func (o *Orchestrator) ApplyHistory(forID int64, msgs []Message) bool {
	if o.phase != PhaseLoading || forID != o.active {
		return false
	}
	o.transcript = msgs
	o.phase = PhaseReady
	return true
}

// FailLoad settles a failed history fetch. The transcript stays empty and the
// session stays selected; the caller surfaces the notice. Returns false when
// the failure belongs to an abandoned fetch.
func (o *Orchestrator) FailLoad(forID int64) bool {
	if o.phase != PhaseLoading || forID != o.active {
		return false
	}
	o.phase = PhaseReady
	return true
}

// BeginSend appends the user's message optimistically and returns the session
// id the query must carry: 0 means no active session, and the backend is
// expected to create one as a side effect.
func (o *Orchestrator) BeginSend(text string) int64 {
	o.transcript = append(o.transcript, Message{Role: RoleUser, Content: text})
	o.phase = PhaseAwaiting
	return o.active
}

// ApplyAnswer appends the assistant's answer, provided the response is for
// the session that is still active. When the query went out without a
// session and the backend assigned one, that id is adopted as the active
// session; the returned adopted value is non-zero in exactly that case so
// the caller can refresh the session directory.
func (o *Orchestrator) ApplyAnswer(forID int64, answer Message, newSessionID int64) (adopted int64, ok bool) {
	if o.phase != PhaseAwaiting || forID != o.active {
		return 0, false
	}
	if o.active == 0 && newSessionID > 0 {
		o.active = newSessionID
		adopted = newSessionID
	}
	o.transcript = append(o.transcript, answer)
	o.phase = PhaseReady
	return adopted, true
}

// FailSend settles a failed query. The optimistic user message is kept; the
// user's intent is not rolled back just because the network was. Returns
// false when the failure belongs to an abandoned query.
func (o *Orchestrator) FailSend(forID int64) bool {
	if o.phase != PhaseAwaiting || forID != o.active {
		return false
	}
	o.phase = PhaseReady
	return true
}
