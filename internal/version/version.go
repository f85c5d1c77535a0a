// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Headless summary/frame/JSON modes, Prometheus metrics, env config
// 0.2.0 - Indicator ring resolver, system ring promotion, sidebar search and bookmarks
// 0.1.0 - Initial release: scene registry, focused and free-fly camera, ray picking
