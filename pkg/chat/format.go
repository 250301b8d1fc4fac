package chat

import "strings"

// maxSpeakerLen bounds how far into a message we look for a "Name:" speaker
// prefix. Longer prefixes are treated as ordinary prose.
const maxSpeakerLen = 50

// FormatWithCharacterName prefixes a player message with the character's
// name in dialogue form, unless the message already begins with a speaker
// prefix. A colon within the first maxSpeakerLen characters is taken as an
// existing prefix; an occasional false positive on prose colons is
// acceptable.
func FormatWithCharacterName(message, name string) string {
	if idx := strings.Index(message, ":"); idx > 0 && idx <= maxSpeakerLen {
		return message
	}
	return name + ": " + message
}
