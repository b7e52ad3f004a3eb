package application

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/whot-client/internal/client"
	"github.com/rocketscienceinc/whot-client/internal/config"
	"github.com/rocketscienceinc/whot-client/internal/entity"
	"github.com/rocketscienceinc/whot-client/transport/rest"
	"github.com/rocketscienceinc/whot-client/transport/stream"
)

// RunApp - wires the synchronization core together, installs a logging
// projection and runs until interrupted. A real UI layer registers its own
// hooks instead and drives the same entry points.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	apiClient := rest.New(logger, conf.Server.GetAPIBase())

	gameClient := client.New(logger, conf, apiClient, func(callbacks stream.Callbacks) client.Channel {
		return stream.New(logger, conf.Server.GetSocketURL(), conf.Reconnect, callbacks)
	})
	defer gameClient.Shutdown()

	gameClient.SetHooks(client.Hooks{
		StateChanged: func(snapshot *entity.GameSnapshot) {
			log.Info("state updated",
				"phase", snapshot.Phase.String(),
				"players", len(snapshot.Players),
				"deckSize", snapshot.DeckSize,
			)
		},
		Notice: func(text string) {
			log.Info("notice", "text", text)
		},
		GameEnded: func() {
			log.Info("game ended")
		},
		GameListUpdated: func(games []entity.GameSummary) {
			log.Info("game list updated", "games", len(games))
		},
		ConnectionChanged: func(state stream.State) {
			log.Info("connection state changed", "state", state.String())
		},
	})

	log.Info("Connecting to game server", "url", conf.Server.GetSocketURL())
	gameClient.Connect()

	<-ctx.Done()
	log.Info("Application context canceled, shutting down")

	return nil
}
