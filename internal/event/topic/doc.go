// Package topic provides hierarchical notification topics and pattern
// matching for the event bus.
//
// Topics use dot-notation:
//
//	component.added
//	component.theme.applied
//	config.theme.reloaded
//
// Patterns may contain wildcards:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	component.*        matches component.added (not component.theme.applied)
//	component.**       matches component.added and component.theme.applied
//	*.*.applied        matches component.theme.applied
//	**                 matches everything
package topic
