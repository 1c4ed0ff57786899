// Package watch builds stop conditions for Driver.RunUntil.
//
// Conditions are either Go predicates (GroupActive, PortEquals) or rego
// policies evaluated after every cycle against the snapshot, presented to
// the policy as
//
//	{
//	  "cycle":  3,
//	  "active": ["main.incr"],
//	  "ports":  {"main.r.out": 2, "main.r.in": null}
//	}
//
// Unknown ports are null and conflicting ports are the string "conflict".
// A policy stops the run when its query evaluates to true; an undefined
// result keeps it going.
package watch
