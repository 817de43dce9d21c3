package service

// Messages holds the user-facing error strings returned in JSON bodies.
type Messages struct {
	InvalidURL      string
	NoMarkers       string
	FetchFailed     string
	EmptyQuery      string
	ChannelNotFound string
	SearchFailed    string
}

var catalog = map[string]Messages{
	"ar": {
		InvalidURL:      "لم يتم العثور على معرف فيديو صالح في الرابط المدخل.",
		NoMarkers:       "لم يتم العثور على بيانات العلامات لهذا الفيديو.",
		FetchFailed:     "تعذر تحميل صفحة الفيديو، يرجى المحاولة لاحقاً.",
		EmptyQuery:      "يرجى تقديم استعلام بحث.",
		ChannelNotFound: "لم يتم العثور على القناة.",
		SearchFailed:    "حدث خطأ أثناء البحث.",
	},
	"en": {
		InvalidURL:      "No valid video id was found in the given URL.",
		NoMarkers:       "No marker data was found for this video.",
		FetchFailed:     "The video page could not be loaded, please try again later.",
		EmptyQuery:      "Please provide a search query.",
		ChannelNotFound: "Channel not found.",
		SearchFailed:    "The search failed.",
	},
}

// MessagesFor returns the catalogue for locale, falling back to Arabic.
func MessagesFor(locale string) Messages {
	if m, ok := catalog[locale]; ok {
		return m
	}
	return catalog["ar"]
}
