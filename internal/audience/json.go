package audience

import (
	"encoding/json"

	"github.com/shobhitraaj/skytarget/internal/document"
	"github.com/shobhitraaj/skytarget/internal/predicate"
	"github.com/shobhitraaj/skytarget/internal/tagselector"
)

// Wire keys for the audience object. Every key is optional.
const (
	keyNewUser            = "new_user"
	keyNotificationOptIn  = "notification_opt_in"
	keyLocationOptIn      = "location_opt_in"
	keyLocale             = "locale"
	keyTestDevices        = "test_devices"
	keyTags               = "tags"
	keyAppVersion         = "app_version"
)

// Parse decodes raw JSON into an Audience. Parsing is atomic: any invalid
// fragment fails the whole parse with a *document.ParseError.
func Parse(data []byte) (*Audience, error) {
	v, err := document.FromJSON(data)
	if err != nil {
		return nil, document.NewParseError(document.ErrMalformedSchema, "", "invalid JSON: %v", err)
	}
	return ParseValue(v, "")
}

// ParseValue decodes an already-parsed document fragment rooted at path.
func ParseValue(v document.Value, path string) (*Audience, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, path, "audience must be an object, got %T", v)
	}

	builder := NewBuilder()

	if raw, exists := obj[keyNewUser]; exists {
		b, ok := raw.(bool)
		if !ok {
			return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyNewUser), "new_user must be a boolean")
		}
		builder.SetNewUser(b)
	}

	if raw, exists := obj[keyNotificationOptIn]; exists {
		b, ok := raw.(bool)
		if !ok {
			return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyNotificationOptIn), "notification_opt_in must be a boolean")
		}
		builder.SetNotificationsOptIn(b)
	}

	if raw, exists := obj[keyLocationOptIn]; exists {
		b, ok := raw.(bool)
		if !ok {
			return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyLocationOptIn), "location_opt_in must be a boolean")
		}
		builder.SetLocationOptIn(b)
	}

	if raw, exists := obj[keyLocale]; exists {
		tags, err := stringList(raw, joinPath(path, keyLocale))
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			builder.AddLanguageTag(tag)
		}
	}

	if raw, exists := obj[keyTestDevices]; exists {
		devices, err := stringList(raw, joinPath(path, keyTestDevices))
		if err != nil {
			return nil, err
		}
		for _, hash := range devices {
			builder.AddTestDevice(hash)
		}
	}

	if raw, exists := obj[keyTags]; exists {
		selector, err := tagselector.ParseValue(raw, joinPath(path, keyTags))
		if err != nil {
			return nil, err
		}
		builder.SetTagSelector(selector)
	}

	if raw, exists := obj[keyAppVersion]; exists {
		node, err := predicate.ParseValue(raw, joinPath(path, keyAppVersion))
		if err != nil {
			return nil, err
		}
		builder.SetVersionPredicate(node)
	}

	return builder.Build(), nil
}

func stringList(v document.Value, path string) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, path, "must be an array of strings")
	}
	result := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, document.NewParseError(document.ErrTypeMismatch, path, "must be an array of strings, found %T", item)
		}
		result = append(result, s)
	}
	return result, nil
}

// MarshalJSON implements json.Marshaler. Absent conditions are omitted so
// a serialized audience round-trips to a structurally equal one.
func (a *Audience) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any)
	if a.NewUser != nil {
		obj[keyNewUser] = *a.NewUser
	}
	if a.NotificationsOptIn != nil {
		obj[keyNotificationOptIn] = *a.NotificationsOptIn
	}
	if a.LocationOptIn != nil {
		obj[keyLocationOptIn] = *a.LocationOptIn
	}
	if len(a.LocaleTags) > 0 {
		obj[keyLocale] = a.LocaleTags
	}
	if len(a.TestDevices) > 0 {
		obj[keyTestDevices] = a.TestDevices
	}
	if a.Tags != nil {
		obj[keyTags] = a.Tags
	}
	if a.VersionPredicate != nil {
		obj[keyAppVersion] = a.VersionPredicate
	}
	return json.Marshal(obj)
}

func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}
