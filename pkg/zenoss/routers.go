package zenoss

import "sort"

// Router names accepted by Invoke.
const (
	MessagingRouter     = "MessagingRouter"
	EventsRouter        = "EventsRouter"
	ProcessRouter       = "ProcessRouter"
	ServiceRouter       = "ServiceRouter"
	DeviceRouter        = "DeviceRouter"
	NetworkRouter       = "NetworkRouter"
	TemplateRouter      = "TemplateRouter"
	DetailNavRouter     = "DetailNavRouter"
	ReportRouter        = "ReportRouter"
	MibRouter           = "MibRouter"
	ZenPackRouter       = "ZenPackRouter"
	TriggersRouter      = "TriggersRouter"
	PropertiesRouter    = "PropertiesRouter"
	ManufacturersRouter = "ManufacturersRouter"
)

// routerPaths maps a router name to the path segment of its endpoint.
// It is never modified after package initialisation.
var routerPaths = map[string]string{
	MessagingRouter:     "messaging",
	EventsRouter:        "evconsole",
	ProcessRouter:       "process",
	ServiceRouter:       "service",
	DeviceRouter:        "device",
	NetworkRouter:       "network",
	TemplateRouter:      "template",
	DetailNavRouter:     "detailnav",
	ReportRouter:        "report",
	MibRouter:           "mib",
	ZenPackRouter:       "zenpack",
	TriggersRouter:      "triggers",
	PropertiesRouter:    "properties",
	ManufacturersRouter: "manufacturers",
}

// RouterPath returns the endpoint path segment for a router name.
func RouterPath(router string) (string, bool) {
	p, ok := routerPaths[router]
	return p, ok
}

// Routers returns the known router names in sorted order.
func Routers() []string {
	names := make([]string, 0, len(routerPaths))
	for name := range routerPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// endpointName returns the last path element of a router endpoint, e.g. "device_router".
func endpointName(path string) string {
	return path + "_router"
}
