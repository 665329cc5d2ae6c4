package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ClawGrabSOL/pumpsnek.io/logging"
	"github.com/ClawGrabSOL/pumpsnek.io/payout"
	"github.com/ClawGrabSOL/pumpsnek.io/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	logging.Init()
	cfg := loadConfig()

	logging.Log.Infof("starting pumpsnek.io server (min players %d, round %ds, prize %g SOL)",
		cfg.MinPlayers, cfg.RoundSeconds, cfg.PrizeSOL)

	queue := payout.NewQueue(payoutQueueSize)
	ledger, err := payout.OpenLedger(cfg.PayoutDB)
	if err != nil {
		logging.Log.WithError(err).Warn("payout ledger unavailable, continuing without persistence")
		ledger = nil
	}
	disburser := payout.NewDisburser(queue, nil, ledger, payoutDrainPeriod, payoutMaxRetries)

	hub := newHub(cfg, queue, nil)

	stop := make(chan struct{})
	disburserCtx, cancelDisburser := context.WithCancel(context.Background())
	go hub.RunSimulation(stop)
	go hub.RunRounds(stop)
	go disburser.Run(disburserCtx)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(hub.DiagnosticsSnapshot())
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		go servePlayer(hub, conn)
	})

	if clientDir, err := resolveClientAssetsDir(); err == nil {
		mux.Handle("/", http.FileServer(http.Dir(clientDir)))
		logging.Log.Infof("serving client assets from %s", clientDir)
	} else {
		logging.Log.WithError(err).Warn("client assets not found, serving API only")
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	go func() {
		logging.Log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.WithError(err).Fatal("server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logging.Log.Info("shutting down")
	close(stop)
	cancelDisburser()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Log.WithError(err).Warn("http shutdown failed")
	}
	if ledger != nil {
		if err := ledger.Close(); err != nil {
			logging.Log.WithError(err).Warn("failed to close payout ledger")
		}
	}
}

// servePlayer owns one websocket connection: it waits for the join
// handshake, then pumps inbound messages into the hub until the connection
// dies. Malformed frames are logged and dropped, never fatal.
func servePlayer(hub *Hub, conn *websocket.Conn) {
	defer conn.Close()

	// Handshake: the first frame must be a join, and it must arrive promptly
	// so silent connections cannot pin a goroutine forever.
	conn.SetReadDeadline(time.Now().Add(handshakeWait))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return
	}
	msgType, err := protocol.PeekType(raw)
	if err != nil || msgType != protocol.MsgJoin {
		logging.Log.Warn("websocket handshake was not a join, closing")
		return
	}
	join, err := protocol.DecodePayload[protocol.Join](raw)
	if err != nil {
		logging.Log.WithError(err).Warn("discarding malformed join")
		return
	}
	name := join.Name
	if name == "" {
		name = "anonymous"
	}

	id, sub, joined := hub.Join(name, join.Wallet, conn)
	defer hub.Disconnect(id)

	data, err := json.Marshal(joined)
	if err != nil {
		logging.Log.WithError(err).Error("failed to marshal joined reply")
		return
	}
	// The reply goes through the subscriber lock; the broadcast loop may
	// already be writing this connection.
	if err := sub.write(data); err != nil {
		return
	}

	conn.SetReadDeadline(time.Time{})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Log.WithError(err).Debugf("read error for %s", id)
			}
			return
		}

		msgType, err := protocol.PeekType(raw)
		if err != nil {
			logging.Log.WithError(err).Debugf("discarding malformed message from %s", id)
			continue
		}

		switch msgType {
		case protocol.MsgInput:
			input, err := protocol.DecodePayload[protocol.Input](raw)
			if err != nil {
				logging.Log.WithError(err).Debugf("discarding malformed input from %s", id)
				continue
			}
			hub.UpdateInput(id, input.Angle, input.Boost)
		case protocol.MsgRespawn:
			hub.Respawn(id)
		default:
			logging.Log.Debugf("unknown message type %q from %s", msgType, id)
		}
	}
}
