package errors

import (
	"fmt"
	"strings"
)

// ManifestNotFoundError is returned when no package manifest exists between
// a start path and the filesystem root. Every valid project has one, so this
// signals a broken layout and aborts setup.
type ManifestNotFoundError struct {
	*BaseError
	Start     string
	Manifests []string
}

// NewManifestNotFoundError creates a ManifestNotFoundError for a start path
func NewManifestNotFoundError(start string, manifests []string) *ManifestNotFoundError {
	message := fmt.Sprintf("can't find %s above %s", strings.Join(manifests, " or "), start)
	base := New(ManifestNotFoundErrorCode, message).
		WithContext("start", start).
		WithSuggestion("make sure the project has a package manifest at its root")
	return &ManifestNotFoundError{BaseError: base, Start: start, Manifests: manifests}
}

// MissingDependencyError lists the framework packages that could not be found
// under any candidate root. It only aborts the request that produced it.
type MissingDependencyError struct {
	*BaseError
	Framework string
	AppName   string
	Required  []string
	Missing   []string
}

// NewMissingDependencyError creates a MissingDependencyError
func NewMissingDependencyError(framework, appName string, required, missing []string) *MissingDependencyError {
	message := fmt.Sprintf("%s toolbar app %q requires [%s] - missing dependencies: [%s]",
		framework, appName, strings.Join(required, ", "), strings.Join(missing, ", "))
	base := New(MissingDependencyErrorCode, message).
		WithContext("framework", framework).
		WithContext("missing", missing).
		WithSuggestion(fmt.Sprintf("install %s in the project", strings.Join(missing, " ")))
	return &MissingDependencyError{
		BaseError: base,
		Framework: framework,
		AppName:   appName,
		Required:  required,
		Missing:   missing,
	}
}

// TemplateLoadError means the framework template could not be read, which
// only happens with a corrupted or mismatched install.
type TemplateLoadError struct {
	*BaseError
	Framework string
	Path      string
}

// NewTemplateLoadError creates a TemplateLoadError wrapping the read failure
func NewTemplateLoadError(framework, path string, cause error) *TemplateLoadError {
	base := Wrap(TemplateLoadErrorCode, fmt.Sprintf("failed to load %s template %s", framework, path), cause).
		WithContext("framework", framework).
		WithContext("path", path)
	return &TemplateLoadError{BaseError: base, Framework: framework, Path: path}
}

// TemplateRenderError reports a template that executed but produced an
// invalid module body.
type TemplateRenderError struct {
	*BaseError
	Framework string
}

// NewTemplateRenderError creates a TemplateRenderError
func NewTemplateRenderError(framework string, cause error) *TemplateRenderError {
	base := Wrap(TemplateRenderErrorCode, fmt.Sprintf("failed to render %s template", framework), cause).
		WithContext("framework", framework)
	return &TemplateRenderError{BaseError: base, Framework: framework}
}

// DuplicateIntegrationWarning is logged, never returned as a failure, when an
// integration is added twice.
type DuplicateIntegrationWarning struct {
	*BaseError
	Name string
}

// NewDuplicateIntegrationWarning creates a DuplicateIntegrationWarning
func NewDuplicateIntegrationWarning(name string) *DuplicateIntegrationWarning {
	message := fmt.Sprintf("integration %q has already been added by the user or another integration. Skipping.", name)
	return &DuplicateIntegrationWarning{
		BaseError: New(DuplicateIntegrationErrorCode, message).WithContext("integration", name),
		Name:      name,
	}
}

// ValidationError reports an invalid injection request field
func ValidationError(field, message string) *BaseError {
	return Newf(ValidationErrorCode, "invalid %s: %s", field, message).
		WithContext("field", field)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}
