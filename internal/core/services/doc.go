// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// LayoutService ties decoding, the layout engine, record building and
// persistence together. SettingsService maps the flat configuration keys
// onto domain settings.
package services
