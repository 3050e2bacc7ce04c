package eos

import (
	"regexp"

	"github.com/five82/eosbridge/internal/osc"
)

// route pairs a path matcher with its handler. Exactly one of exact and
// pattern is set. when, if non-nil, must also accept the message.
type route struct {
	name    string
	exact   string
	pattern *regexp.Regexp
	when    func(osc.Message) bool
	handle  func(msg osc.Message, captures []string)
}

func exactRoute(name, path string, handle func(osc.Message, []string)) route {
	return route{name: name, exact: path, handle: handle}
}

func patternRoute(name, expr string, handle func(osc.Message, []string)) route {
	return route{name: name, pattern: regexp.MustCompile(expr), handle: handle}
}

func (r route) withCondition(when func(osc.Message) bool) route {
	r.when = when
	return r
}

func (r route) match(msg osc.Message) ([]string, bool) {
	var captures []string
	switch {
	case r.pattern != nil:
		m := r.pattern.FindStringSubmatch(msg.Path)
		if m == nil {
			return nil, false
		}
		captures = m[1:]
	case msg.Path != r.exact:
		return nil, false
	}
	if r.when != nil && !r.when(msg) {
		return nil, false
	}
	return captures, true
}

// router evaluates routes in order. The first match handles the message;
// unmatched messages are ignored.
type router struct {
	routes []route
}

// dispatch returns the name of the route that handled msg.
func (r router) dispatch(msg osc.Message) (string, bool) {
	for _, rt := range r.routes {
		captures, ok := rt.match(msg)
		if !ok {
			continue
		}
		rt.handle(msg, captures)
		return rt.name, true
	}
	return "", false
}

func noArgs(msg osc.Message) bool {
	return len(msg.Args) == 0
}

func oneString(msg osc.Message) bool {
	if len(msg.Args) != 1 {
		return false
	}
	_, ok := msg.StringArg(0)
	return ok
}
