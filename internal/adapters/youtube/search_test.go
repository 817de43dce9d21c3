package youtube_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/okian/ytpeaks/internal/adapters/youtube"
	. "github.com/smartystreets/goconvey/convey"
)

const videosJSON = `{"kind":"youtube#searchListResponse","items":[
 {"id":{"kind":"youtube#video","videoId":"vid1"},"snippet":{"title":"First","channelTitle":"Chan","publishedAt":"2024-01-02T03:04:05Z","thumbnails":{"medium":{"url":"https://i.ytimg.com/vi/vid1/mqdefault.jpg"}}}},
 {"id":{"kind":"youtube#channel","channelId":"UCx"},"snippet":{"title":"A channel"}},
 {"id":{"kind":"youtube#video","videoId":"vid2"},"snippet":{"title":"Second","channelTitle":"Chan","publishedAt":"2024-02-02T03:04:05Z"}}
]}`

// fakeDataAPI records every search request and answers from a handler.
type fakeDataAPI struct {
	mu       sync.Mutex
	requests []url.Values
	respond  func(q url.Values) (int, string)
}

func (f *fakeDataAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/youtube/v3/search" {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	f.mu.Lock()
	f.requests = append(f.requests, q)
	f.mu.Unlock()
	status, body := f.respond(q)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakeDataAPI) calls() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.requests...)
}

func newClient(srv *httptest.Server) *youtube.SearchClient {
	c, err := youtube.NewSearchClient(context.Background(), "test-key", youtube.WithEndpoint(srv.URL))
	So(err, ShouldBeNil)
	return c
}

func TestSearchClient_SearchVideos(t *testing.T) {
	Convey("Given a Data API answering with mixed items", t, func() {
		api := &fakeDataAPI{respond: func(url.Values) (int, string) { return http.StatusOK, videosJSON }}
		srv := httptest.NewServer(api)
		defer srv.Close()
		c := newClient(srv)

		Convey("When searching by keyword", func() {
			videos, err := c.SearchVideos(context.Background(), youtube.VideoQuery{Query: "lofi", Order: youtube.OrderDate})

			Convey("Then the request carries the expected parameters", func() {
				So(err, ShouldBeNil)
				calls := api.calls()
				So(len(calls), ShouldEqual, 1)
				So(calls[0].Get("q"), ShouldEqual, "lofi")
				So(calls[0].Get("type"), ShouldEqual, "video")
				So(calls[0].Get("order"), ShouldEqual, "date")
				So(calls[0].Get("maxResults"), ShouldEqual, "50")
				So(calls[0].Get("part"), ShouldEqual, "snippet")
				So(calls[0].Get("key"), ShouldEqual, "test-key")
				So(calls[0].Get("channelId"), ShouldBeEmpty)
			})

			Convey("Then items are reshaped and non-videos dropped", func() {
				So(videos, ShouldResemble, []youtube.Video{
					{
						ID:           "vid1",
						Title:        "First",
						Thumbnail:    "https://i.ytimg.com/vi/vid1/mqdefault.jpg",
						ChannelTitle: "Chan",
						PublishedAt:  "2024-01-02T03:04:05Z",
					},
					{ID: "vid2", Title: "Second", ChannelTitle: "Chan", PublishedAt: "2024-02-02T03:04:05Z"},
				})
			})
		})

		Convey("When searching a channel with an unknown order and small page", func() {
			_, err := c.SearchVideos(context.Background(), youtube.VideoQuery{ChannelID: "UCx", Order: "popular", MaxResults: 5})

			Convey("Then the channel filter replaces q and the order falls back", func() {
				So(err, ShouldBeNil)
				calls := api.calls()
				So(calls[0].Get("channelId"), ShouldEqual, "UCx")
				So(calls[0].Get("q"), ShouldBeEmpty)
				So(calls[0].Get("order"), ShouldEqual, "relevance")
				So(calls[0].Get("maxResults"), ShouldEqual, "5")
			})
		})
	})

	Convey("Given a Data API answering with no items", t, func() {
		srv := httptest.NewServer(&fakeDataAPI{respond: func(url.Values) (int, string) { return http.StatusOK, `{"items":[]}` }})
		defer srv.Close()

		videos, err := newClient(srv).SearchVideos(context.Background(), youtube.VideoQuery{Query: "nothing"})

		Convey("Then an empty non-nil slice is returned", func() {
			So(err, ShouldBeNil)
			So(videos, ShouldNotBeNil)
			So(videos, ShouldBeEmpty)
		})
	})

	Convey("Given a Data API rejecting the key", t, func() {
		srv := httptest.NewServer(&fakeDataAPI{respond: func(url.Values) (int, string) {
			return http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid"}}`
		}})
		defer srv.Close()

		_, err := newClient(srv).SearchVideos(context.Background(), youtube.VideoQuery{Query: "x"})

		Convey("Then a search error is returned", func() {
			So(errors.Is(err, youtube.ErrSearch), ShouldBeTrue)
		})
	})
}

func TestSearchClient_ResolveChannel(t *testing.T) {
	Convey("Given a Data API with one matching channel", t, func() {
		api := &fakeDataAPI{respond: func(q url.Values) (int, string) {
			if q.Get("q") == "nobody" {
				return http.StatusOK, `{"items":[]}`
			}
			return http.StatusOK, `{"items":[{"id":{"kind":"youtube#channel","channelId":"UC123"}},{"id":{"kind":"youtube#channel","channelId":"UC456"}}]}`
		}}
		srv := httptest.NewServer(api)
		defer srv.Close()
		c := newClient(srv)

		Convey("When resolving a known name", func() {
			id, found, err := c.ResolveChannel(context.Background(), "Some Channel")

			Convey("Then the first channel id is returned from a channel-typed search", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(id, ShouldEqual, "UC123")
				So(api.calls()[0].Get("type"), ShouldEqual, "channel")
				So(api.calls()[0].Get("q"), ShouldEqual, "Some Channel")
			})
		})

		Convey("When resolving an unknown name", func() {
			id, found, err := c.ResolveChannel(context.Background(), "nobody")

			Convey("Then nothing is found without an error", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
				So(id, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a failing Data API", t, func() {
		srv := httptest.NewServer(&fakeDataAPI{respond: func(url.Values) (int, string) {
			return http.StatusBadRequest, `{"error":{"code":400,"message":"bad request"}}`
		}})
		defer srv.Close()

		_, found, err := newClient(srv).ResolveChannel(context.Background(), "x")

		Convey("Then the error is wrapped", func() {
			So(found, ShouldBeFalse)
			So(errors.Is(err, youtube.ErrSearch), ShouldBeTrue)
		})
	})
}

func TestValidOrder(t *testing.T) {
	Convey("Given the supported orders", t, func() {
		for _, o := range []string{"relevance", "date", "viewCount", "rating"} {
			So(youtube.ValidOrder(o), ShouldBeTrue)
		}
		So(youtube.ValidOrder("views"), ShouldBeFalse)
		So(youtube.ValidOrder(""), ShouldBeFalse)
	})
}
