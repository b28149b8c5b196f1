package email

import "strings"

// topicKeywords maps a conversation topic to the words that signal it.
// Within a single message, earlier entries win ties.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"business growth", []string{"business", "growth", "marketing", "sales", "revenue"}},
	{"web development", []string{"website", "web", "development", "coding", "programming"}},
	{"mobile apps", []string{"app", "mobile", "ios", "android", "application"}},
	{"digital marketing", []string{"marketing", "social media", "seo", "advertising", "promotion"}},
	{"design", []string{"design", "ui", "ux", "graphics", "branding"}},
	{"technology", []string{"tech", "technology", "software", "system", "digital"}},
}

const maxTopics = 3

// Topics tags the conversation with up to three topics, ordered by where in
// the visitor's messages each topic's first keyword match occurred.
func Topics(userMessages []string) []string {
	var topics []string
	seen := make(map[string]bool)

	for _, msg := range userMessages {
		lower := strings.ToLower(msg)
		for _, entry := range topicKeywords {
			if seen[entry.topic] {
				continue
			}
			for _, kw := range entry.keywords {
				if strings.Contains(lower, kw) {
					topics = append(topics, entry.topic)
					seen[entry.topic] = true
					break
				}
			}
			if len(topics) == maxTopics {
				return topics
			}
		}
	}

	return topics
}
