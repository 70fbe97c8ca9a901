// Package repl is the interactive command dispatcher.
//
// Each input line is split into a verb and a single remainder. The
// remainder is handed to the verb's handler unparsed:
//
//	set <flags>                 reconnect with -h/--host, -d/--db, --port, --read-preference
//	find [<collection> [<json>]] select a collection and/or filter, count and preview
//	sort [<json>]                set the sort specification
//	compare                      run a pairwise comparison
//	exit                         leave
//
// Unknown verbs and blank lines reprint the connection and session state.
// Handler errors are printed and the loop carries on.
package repl
