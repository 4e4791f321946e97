package devbar

import (
	"github.com/toyz/devbar/internal/errors"
)

// AddIntegrationOptions controls AddIntegration
type AddIntegrationOptions struct {
	// EnsureUnique skips integrations that are already configured
	EnsureUnique bool
}

// DefaultAddIntegrationOptions returns the options used by most callers
func DefaultAddIntegrationOptions() AddIntegrationOptions {
	return AddIntegrationOptions{EnsureUnique: true}
}

// AddIntegration appends integration to the host configuration. With
// EnsureUnique an integration that is already present is skipped and a
// warning is logged. It reports whether the integration was added.
func (i *Injector) AddIntegration(integration Integration, opts AddIntegrationOptions, hooks Hooks) (bool, error) {
	if integration.Name == "" {
		return false, errors.ValidationError("integration.name", "integration name is required")
	}
	if hooks.Updater == nil {
		return false, errors.ValidationError("hooks", "a config updater is required")
	}

	if opts.EnsureUnique && hooks.Integrations != nil &&
		hooks.Integrations.HasIntegration(integration.Name, OrderAny, "") {
		hooks.logger().Warn("%s", errors.NewDuplicateIntegrationWarning(integration.Name).Error())
		return false, nil
	}

	hooks.Updater.UpdateConfig(BuildConfig{Integrations: []Integration{integration}})
	return true, nil
}
