// Package readiness decouples "process started" from "service usable".
//
// A storage server that has been started is not necessarily ready to answer
// requests; a fixed sleep before talking to it is a race condition disguised
// as a solution. The Waiter replaces that with a bounded, observable retry
// policy: probe, back off exponentially (capped, no jitter), retry up to a
// configured attempt budget, and report either Ready or Unreachable.
//
// # State machine
//
//	Unknown -> Probing          on the first probe
//	Probing -> Ready            on a successful connection
//	Probing -> Probing          on a failed attempt within budget
//	Probing -> Unreachable      when the budget is exhausted
//
// Credential rejections short-circuit the loop: waiting does not make invalid
// keys valid, so the waiter surfaces the ConnectError immediately instead of
// burning the budget.
package readiness
