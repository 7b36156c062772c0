// Package nav maps navigation keys to views and owns the immutable
// application state the shell threads through every panel.
package nav

import "strings"

// View is a node of the two-level view tree.
type View struct {
	Key   string
	Title string
	Subs  []View
}

// Tree lists the top-level views in sidebar order.
var Tree = []View{
	{Key: "overview", Title: "Overview", Subs: []View{
		{Key: "overview.home", Title: "Home"},
	}},
	{Key: "data", Title: "Data Platform", Subs: []View{
		{Key: "data.center", Title: "Dataset Center"},
		{Key: "data.processing", Title: "Data Processing"},
		{Key: "data.construction", Title: "Dataset Construction"},
	}},
	{Key: "training", Title: "Training", Subs: []View{
		{Key: "training.jobs", Title: "Training Jobs"},
		{Key: "training.create", Title: "New Training Job"},
	}},
	{Key: "deploy", Title: "Deployment", Subs: []View{
		{Key: "deploy.services", Title: "Model Services"},
	}},
	{Key: "eval", Title: "Evaluation", Subs: []View{
		{Key: "eval.leaderboard", Title: "Leaderboard"},
	}},
	{Key: "observe", Title: "Observability", Subs: []View{
		{Key: "observe.metrics", Title: "Metrics"},
		{Key: "observe.logs", Title: "Request Logs"},
	}},
	{Key: "playground", Title: "Playground", Subs: []View{
		{Key: "playground.chat", Title: "Chat"},
	}},
}

// Resolve maps a top-level or sub-view key to (top, sub). A top-level key
// resolves to its first sub-view.
func Resolve(key string) (top View, sub View, ok bool) {
	key = strings.TrimSpace(key)
	for _, t := range Tree {
		if t.Key == key {
			if len(t.Subs) == 0 {
				return t, View{}, false
			}
			return t, t.Subs[0], true
		}
		for _, s := range t.Subs {
			if s.Key == key {
				return t, s, true
			}
		}
	}
	return View{}, View{}, false
}

// TopOf returns the top-level key owning key, or "" when unknown.
func TopOf(key string) string {
	top, _, ok := Resolve(key)
	if !ok {
		return ""
	}
	return top.Key
}

// Siblings returns the sub-views sharing key's top-level view.
func Siblings(key string) []View {
	top, _, ok := Resolve(key)
	if !ok {
		return nil
	}
	return top.Subs
}

// Breadcrumb renders "Top / Sub" for key.
func Breadcrumb(key string) string {
	top, sub, ok := Resolve(key)
	if !ok {
		return ""
	}
	if len(top.Subs) == 1 {
		return top.Title
	}
	return top.Title + " / " + sub.Title
}

// Step returns the sibling sub-view delta positions away from key,
// wrapping around.
func Step(key string, delta int) string {
	subs := Siblings(key)
	if len(subs) == 0 {
		return key
	}
	_, cur, _ := Resolve(key)
	idx := 0
	for i, s := range subs {
		if s.Key == cur.Key {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(subs) + len(subs)) % len(subs)
	return subs[idx].Key
}
