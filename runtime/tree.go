package runtime

import (
	"fmt"

	"github.com/vcrobe/nojs-pwa/vdom"
)

// RootKey is the instance key under which a renderer mounts its root component.
const RootKey = "__root__"

// InstanceTree tracks component instances by key across render cycles.
// A cycle is BeginCycle, any number of Mount calls, then EndCycle; instances
// not mounted during a cycle are destroyed at its end. Both the browser
// renderer and the test renderer drive their components through it.
// It is not safe for concurrent use; callers serialize render cycles.
type InstanceTree struct {
	instances  map[string]Component
	activeKeys map[string]bool
}

// NewInstanceTree returns an empty tree.
func NewInstanceTree() *InstanceTree {
	return &InstanceTree{
		instances:  make(map[string]Component),
		activeKeys: make(map[string]bool),
	}
}

// BeginCycle resets the set of keys seen in the current render.
func (t *InstanceTree) BeginCycle() {
	clear(t.activeKeys)
}

// Mount returns the live instance for key, creating it from childWithProps on
// first sight or applying childWithProps' props to the preserved instance.
// It runs OnInit once and OnParametersSet on every mount.
func (t *InstanceTree) Mount(r Renderer, key string, childWithProps Component) Component {
	t.activeKeys[key] = true

	instance, exists := t.instances[key]
	if !exists {
		instance = childWithProps
		t.instances[key] = instance
	} else if updater, ok := instance.(PropUpdater); ok && instance != childWithProps {
		updater.ApplyProps(childWithProps)
	}

	instance.SetRenderer(r)

	if !exists {
		if initializer, ok := instance.(Initializer); ok {
			callHook("OnInit", key, initializer.OnInit)
		}
	}
	if receiver, ok := instance.(ParameterReceiver); ok {
		callHook("OnParametersSet", key, receiver.OnParametersSet)
	}
	return instance
}

// RenderChild mounts the child and renders it, tagging the resulting subtree
// with key unless a nested component already claimed it.
func (t *InstanceTree) RenderChild(r Renderer, key string, childWithProps Component) *vdom.VNode {
	instance := t.Mount(r, key, childWithProps)
	node := instance.Render(r)
	if node != nil && node.ComponentKey == "" {
		node.ComponentKey = key
	}
	return node
}

// EndCycle destroys every instance that was not mounted during the cycle.
func (t *InstanceTree) EndCycle() {
	for key, instance := range t.instances {
		if t.activeKeys[key] {
			continue
		}
		if cleaner, ok := instance.(Cleaner); ok {
			callHook("OnDestroy", key, cleaner.OnDestroy)
		}
		delete(t.instances, key)
	}
}

// Instance returns the live instance for key.
func (t *InstanceTree) Instance(key string) (Component, bool) {
	c, ok := t.instances[key]
	return c, ok
}

// Len returns the number of live instances.
func (t *InstanceTree) Len() int {
	return len(t.instances)
}

func hookError(hook, key string, rec any) string {
	return fmt.Sprintf("ERROR: %s panic in component %s: %v", hook, key, rec)
}
