package broadcast

import "net/url"

// ttsBaseURL is the Google Translate endpoint that renders text to speech.
const ttsBaseURL = "https://translate.google.com/translate_tts"

// ttsURL builds a text-to-speech media URL for the given message.
func ttsURL(message string) string {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("tl", "en")
	query.Set("client", "tw-ob")
	query.Set("q", message)

	return ttsBaseURL + "?" + query.Encode()
}
