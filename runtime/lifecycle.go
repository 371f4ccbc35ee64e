package runtime

// Initializer is implemented by components that need setup before their first render.
type Initializer interface {
	OnInit()
}

// ParameterReceiver is implemented by components that react to new props.
// OnParametersSet runs before every render, including the first.
type ParameterReceiver interface {
	OnParametersSet()
}

// Cleaner is implemented by components that release resources when unmounted.
type Cleaner interface {
	OnDestroy()
}

// PropUpdater copies props from a freshly constructed instance onto the
// preserved one when a component is re-rendered at the same key.
type PropUpdater interface {
	ApplyProps(source Component)
}

// NavigationManager performs client-side navigation. The router engine implements it.
type NavigationManager interface {
	Navigate(path string) error
}
