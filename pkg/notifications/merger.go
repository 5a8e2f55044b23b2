// Package notifications merges application-scoped notifications into an
// execution's own notification list.
package notifications

import "github.com/alexgaganashvili/orca/pkg/models"

// Merge folds appNotifications into pipelineNotifications and returns the
// combined list. Pipeline entries are never removed, reordered, or altered;
// each application notification contributes at most one appended entry.
//
// A pipeline notification overrides an application one when they share a
// non-empty address or a non-empty publisher name, and a non-empty type. The
// first matching pipeline entry wins, scanned in list order over the current
// list (entries appended by earlier application notifications included). The
// override removes the trigger names the pipeline entry already covers; the
// application notification survives with whatever triggers remain, and is
// dropped entirely when fully shadowed.
func Merge(pipelineNotifications, appNotifications []*models.Notification) []*models.Notification {
	merged := pipelineNotifications

	for _, appNotification := range appNotifications {
		override := firstOverride(merged, appNotification)
		if override == nil {
			merged = append(merged, appNotification)

			continue
		}

		remaining := difference(appNotification.When, override.When)
		if len(remaining) == 0 {
			continue
		}

		shadowed := appNotification.Clone()
		shadowed.When = remaining
		merged = append(merged, shadowed)
	}

	return merged
}

// firstOverride returns the first pipeline notification that overrides the
// given application notification, or nil. First match wins; no best-match
// scoring is attempted.
func firstOverride(list []*models.Notification, appNotification *models.Notification) *models.Notification {
	for _, p := range list {
		if overrides(p, appNotification) {
			return p
		}
	}

	return nil
}

func overrides(p, appNotification *models.Notification) bool {
	sameAddress := p.Address != "" && appNotification.Address != "" && p.Address == appNotification.Address
	samePublisher := p.PublisherName != "" && appNotification.PublisherName != "" && p.PublisherName == appNotification.PublisherName
	sameType := p.Type != "" && appNotification.Type != "" && p.Type == appNotification.Type

	return (sameAddress || samePublisher) && sameType
}

// difference returns the trigger names in when that cover does not contain,
// preserving their original order.
func difference(when, cover []string) []string {
	covered := make(map[string]bool, len(cover))
	for _, name := range cover {
		covered[name] = true
	}

	var remaining []string

	for _, name := range when {
		if !covered[name] {
			remaining = append(remaining, name)
		}
	}

	return remaining
}
