package ws

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// originChecker accepts requests without an Origin header (non-browser
// clients), same-host origins, and the public site origin.
func originChecker(siteURL string) func(r *http.Request) bool {
	var site *url.URL
	if u, err := url.Parse(siteURL); err == nil && u.Host != "" {
		site = u
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return site != nil && strings.EqualFold(u.Scheme, site.Scheme) && strings.EqualFold(u.Host, site.Host)
	}
}

// Handler upgrades the request and subscribes it to revalidation events.
// ?tags=projects,blogs narrows the stream. Browser origins other than the
// serving host or siteURL are refused.
func Handler(hub *Hub, siteURL string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{CheckOrigin: originChecker(siteURL)}
	return func(c *gin.Context) {
		var tags []string
		for _, t := range strings.Split(c.Query("tags"), ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		cl := newClient(hub, conn, tags)
		select {
		case hub.register <- cl:
		case <-hub.done:
			conn.Close()
			return
		}

		go cl.writePump()
		cl.readPump()
	}
}
