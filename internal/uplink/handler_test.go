package uplink

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/voidreach/simcore/internal/config"
	"github.com/voidreach/simcore/internal/observability"
	"github.com/voidreach/simcore/internal/session"
	"github.com/voidreach/simcore/internal/universe"
)

func TestUplinkHandler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Uplink Handler Suite")
}

func newTestServer() (*httptest.Server, string) {
	observability.InitMetrics()

	cfg := config.Default()
	cfg.ComputerPlayers = 0
	cfg.SpawnRateStar = config.SpawnRate{Mean: 1, StdDev: 0}
	cfg.SpawnRateRock = config.SpawnRate{Mean: 0, StdDev: 0}
	uni := universe.New(cfg, logr.Discard())
	sess := session.NewSession(session.NewRealClock(), uni, 20, 100, 10)

	Serve(uni, sess, logr.Discard())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", WebSocketHandler)
	mux.HandleFunc("/healthz", HealthzHandler)
	mux.HandleFunc("/metrics", MetricsHandler)

	testServer := httptest.NewServer(mux)
	wsURL := "ws" + testServer.URL[len("http"):] + "/ws"
	return testServer, wsURL
}

var _ = Describe("Uplink HTTP routes", Label("scope:integration", "layer:uplink"), func() {
	var testServer *httptest.Server
	var wsURL string

	BeforeEach(func() {
		testServer, wsURL = newTestServer()
	})

	AfterEach(func() {
		if testServer != nil {
			testServer.Close()
		}
	})

	Describe("WebSocketHandler", func() {
		It("upgrades an HTTP request to a WebSocket connection", func() {
			dialer := websocket.Dialer{}
			conn, resp, err := dialer.Dial(wsURL, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusSwitchingProtocols))
			conn.Close()
		})

		It("broadcasts a frame message to a connected client", func() {
			dialer := websocket.Dialer{}
			conn, _, err := dialer.Dial(wsURL, nil)
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, data, err := conn.ReadMessage()
			Expect(err).NotTo(HaveOccurred())

			var frame map[string]interface{}
			Expect(json.Unmarshal(data, &frame)).To(Succeed())
			Expect(frame["t"]).To(Equal("frame"))
			Expect(frame).To(HaveKey("view"))
			Expect(frame).To(HaveKey("feedback"))
		})

		It("accepts a command message without erroring the connection", func() {
			dialer := websocket.Dialer{}
			conn, _, err := dialer.Dial(wsURL, nil)
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			Expect(conn.WriteJSON(map[string]interface{}{
				"t": "command", "seq": 1, "line": "sim.toggle",
			})).To(Succeed())

			time.Sleep(100 * time.Millisecond)
		})

		It("responds with an error envelope for malformed input", func() {
			dialer := websocket.Dialer{}
			conn, _, err := dialer.Dial(wsURL, nil)
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			Expect(conn.WriteMessage(websocket.TextMessage, []byte(`not json`))).To(Succeed())

			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			for {
				_, data, err := conn.ReadMessage()
				Expect(err).NotTo(HaveOccurred())
				var envelope map[string]interface{}
				Expect(json.Unmarshal(data, &envelope)).To(Succeed())
				if envelope["t"] == "error" {
					Expect(envelope["message"]).NotTo(BeEmpty())
					return
				}
			}
		})
	})

	Describe("HealthzHandler", func() {
		It("returns a 200 JSON status response", func() {
			resp, err := http.Get(testServer.URL + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))

			var result map[string]interface{}
			Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
			Expect(result["status"]).To(Equal("ok"))
		})
	})

	Describe("MetricsHandler", func() {
		It("exposes connection metrics after a connection", func() {
			dialer := websocket.Dialer{}
			conn, _, err := dialer.Dial(wsURL, nil)
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			time.Sleep(100 * time.Millisecond)

			resp, err := http.Get(testServer.URL + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})
})
