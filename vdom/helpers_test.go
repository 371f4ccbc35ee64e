package vdom

import "github.com/vcrobe/nojs-pwa/events"

func synthetic() events.ClickEventArgs {
	return events.Synthetic(nil)
}
