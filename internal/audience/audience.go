// Package audience implements the top-level targeting rule: a set of
// independent, individually optional conditions combined by conjunction
// and evaluated against a runtime context.
package audience

import (
	"strings"

	"github.com/shobhitraaj/skytarget/internal/matcher"
	"github.com/shobhitraaj/skytarget/internal/predicate"
	"github.com/shobhitraaj/skytarget/internal/tagselector"
)

// Audience aggregates the optional targeting conditions. An absent field
// imposes no constraint; an Audience with every field absent matches every
// context. Audiences are built once (Builder or Parse) and never mutated.
type Audience struct {
	NewUser            *bool
	NotificationsOptIn *bool
	LocationOptIn      *bool
	LocaleTags         []string
	TestDevices        []string
	Tags               tagselector.Selector
	VersionPredicate   predicate.Node
}

// Matches reports whether ctx satisfies every present condition.
//
// The test_devices list is an additional conjunctive condition: when the
// list is non-empty the context's device hash must appear in it. It is not
// a bypass that overrides the other conditions.
func (a *Audience) Matches(ctx Context) bool {
	if a.NewUser != nil && *a.NewUser != ctx.IsNewUser {
		return false
	}
	if a.NotificationsOptIn != nil && *a.NotificationsOptIn != ctx.NotificationsOptIn {
		return false
	}
	if a.LocationOptIn != nil && *a.LocationOptIn != ctx.LocationOptIn {
		return false
	}
	if len(a.LocaleTags) > 0 && !matchesLocale(a.LocaleTags, ctx.Locale) {
		return false
	}
	if a.VersionPredicate != nil && !a.VersionPredicate.Evaluate(versionDocument(ctx)) {
		return false
	}
	if a.Tags != nil && !a.Tags.Evaluate(ctx.ChannelTags) {
		return false
	}
	if len(a.TestDevices) > 0 && !containsString(a.TestDevices, ctx.DeviceHash) {
		return false
	}
	return true
}

// versionDocument builds the synthetic one-key document the version
// predicate is evaluated against. The key is resolved from the context's
// declared platform at evaluation time.
func versionDocument(ctx Context) map[string]any {
	return map[string]any{ctx.Platform.VersionKey(): float64(ctx.AppVersionCode)}
}

// matchesLocale reports whether any rule entry's language+region prefix
// matches the context locale. Language codes compare case-insensitively;
// the region is compared only when the rule entry specifies one.
func matchesLocale(tags []string, locale string) bool {
	ctxLang, ctxRegion := splitLanguageTag(locale)
	if ctxLang == "" {
		return false
	}
	for _, tag := range tags {
		lang, region := splitLanguageTag(tag)
		if !strings.EqualFold(lang, ctxLang) {
			continue
		}
		if region == "" || strings.EqualFold(region, ctxRegion) {
			return true
		}
	}
	return false
}

// splitLanguageTag splits a BCP 47-ish tag into language and region,
// accepting both "en-US" and "en_US" spellings. Anything past the region
// subtag is ignored.
func splitLanguageTag(tag string) (lang, region string) {
	parts := strings.FieldsFunc(tag, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return "", ""
	}
	lang = parts[0]
	if len(parts) > 1 {
		region = parts[1]
	}
	return lang, region
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Builder assembles an immutable Audience. Partial state is never visible
// outside the builder; Build copies the accumulated slices.
type Builder struct {
	newUser            *bool
	notificationsOptIn *bool
	locationOptIn      *bool
	localeTags         []string
	testDevices        []string
	tags               tagselector.Selector
	versionPredicate   predicate.Node
}

// NewBuilder creates an empty audience builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetNewUser constrains the audience to new (or existing) users.
func (b *Builder) SetNewUser(newUser bool) *Builder {
	b.newUser = &newUser
	return b
}

// SetNotificationsOptIn requires the notification opt-in state to match.
func (b *Builder) SetNotificationsOptIn(optIn bool) *Builder {
	b.notificationsOptIn = &optIn
	return b
}

// SetLocationOptIn requires the location opt-in state to match.
func (b *Builder) SetLocationOptIn(optIn bool) *Builder {
	b.locationOptIn = &optIn
	return b
}

// AddLanguageTag adds a BCP 47 language tag to the locale allow-list. Only
// the language and region subtags participate in matching.
func (b *Builder) AddLanguageTag(tag string) *Builder {
	b.localeTags = append(b.localeTags, tag)
	return b
}

// AddTestDevice adds a hashed device identifier to the test-device list.
func (b *Builder) AddTestDevice(hash string) *Builder {
	b.testDevices = append(b.testDevices, hash)
	return b
}

// SetTagSelector sets the channel tag selector.
func (b *Builder) SetTagSelector(selector tagselector.Selector) *Builder {
	b.tags = selector
	return b
}

// SetVersionPredicate sets the app version predicate directly.
func (b *Builder) SetVersionPredicate(node predicate.Node) *Builder {
	b.versionPredicate = node
	return b
}

// SetVersionMatcher wraps a value matcher in a predicate that matches the
// app version code under whichever platform key the evaluation context
// declares. The platform is resolved at evaluation time, not here.
func (b *Builder) SetVersionMatcher(vm matcher.ValueMatcher) *Builder {
	b.versionPredicate = predicate.Or{Children: []predicate.Node{
		predicate.Match{Matcher: matcher.KeyedMatcher{Key: PlatformAndroid.VersionKey(), Matcher: vm}},
		predicate.Match{Matcher: matcher.KeyedMatcher{Key: PlatformAmazon.VersionKey(), Matcher: vm}},
	}}
	return b
}

// Build returns the immutable audience.
func (b *Builder) Build() *Audience {
	a := &Audience{
		NewUser:            b.newUser,
		NotificationsOptIn: b.notificationsOptIn,
		LocationOptIn:      b.locationOptIn,
		Tags:               b.tags,
		VersionPredicate:   b.versionPredicate,
	}
	if len(b.localeTags) > 0 {
		a.LocaleTags = append([]string(nil), b.localeTags...)
	}
	if len(b.testDevices) > 0 {
		a.TestDevices = append([]string(nil), b.testDevices...)
	}
	return a
}
