package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-client/internal/config"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
	"github.com/rocketscienceinc/tictactoe-client/internal/hotseat"
	"github.com/rocketscienceinc/tictactoe-client/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-client/internal/session"
	redistransport "github.com/rocketscienceinc/tictactoe-client/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-client/internal/transport/rest"
	wstransport "github.com/rocketscienceinc/tictactoe-client/internal/transport/websocket"
)

var (
	ErrUsage            = errors.New("usage: tictactoe-client [local [--ai] | new | join <gameID>]")
	ErrUnknownTransport = errors.New("unknown transport")
)

type connection interface {
	session.Connection
	Connect(ctx context.Context, gameID string, join entity.JoinPayload) error
}

// RunApp - runs the client in one of its three modes: local hot-seat
// (optionally against the server-side AI), creating a shared session, or
// joining one via a shared id.
func RunApp(logger *slog.Logger, conf *config.Config, args []string) error {
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

	if len(args) == 0 {
		return ErrUsage
	}

	api := rest.NewClient(conf.APIBaseURL)

	switch args[0] {
	case "local":
		aiMode := len(args) > 1 && args[1] == "--ai"
		return runLocal(ctx, logger, api, aiMode)
	case "new":
		return runSession(ctx, logger, conf, api, "")
	case "join":
		if len(args) < 2 {
			return ErrUsage
		}
		return runSession(ctx, logger, conf, api, args[1])
	default:
		return ErrUsage
	}
}

// runSession - the networked mode. An empty joinID means this client
// creates the session and owns the Creator slot from genesis.
func runSession(ctx context.Context, logger *slog.Logger, conf *config.Config, api *rest.Client, joinID string) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resolver := session.NewRoleResolver()

	var gameID string
	if joinID == "" {
		frame, err := api.NewGame(ctx, false)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		gameID = frame.GameID
		resolver.ResolveCreator()
		log.Info("session created, share this id to invite an opponent", "gameID", gameID)
	} else {
		gameID = joinID

		// Pre-connect presence check; a failed query is tolerated and
		// the claim is kept, since the server settles slot ownership
		// either way.
		snapshot, err := api.State(ctx, gameID)
		if err != nil {
			log.Warn("presence pre-check failed, keeping the joiner claim", "error", err)
			snapshot = nil
		}

		role := resolver.ResolveJoiner(snapshot)
		log.Info("resolved role", "role", string(role))
	}

	conn, err := newConnection(logger, conf)
	if err != nil {
		return err
	}

	// Spectators announce themselves with the Joiner mark; the server
	// uses the announcement for chat attribution only.
	candidate := resolver.Role().InitialMark()
	if candidate == "" {
		candidate = entity.MarkO
	}

	token := pkg.GenerateSessionToken()
	if err = conn.Connect(ctx, gameID, entity.JoinPayload{Player: candidate, SessionToken: token}); err != nil {
		return fmt.Errorf("try reconnecting: %w", err)
	}

	client := session.NewClient(logger, conn, gameID, resolver)
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("failed to close session", "error", closeErr)
		}
	}()

	go reportUpdates(logger, client)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- client.Run(ctx)
	}()

	readCommands(ctx, log, client)
	cancel()

	return <-runErrCh
}

// readCommands - thin stdin adapter driving the session client. All game
// decisions live in the session package; this loop only parses lines.
func readCommands(ctx context.Context, log *slog.Logger, client *session.Client) {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "move":
			if len(fields) != 3 {
				log.Info("usage: move <row> <col>")
				continue
			}

			row, errRow := strconv.Atoi(fields[1])
			col, errCol := strconv.Atoi(fields[2])
			if errRow != nil || errCol != nil {
				log.Info("usage: move <row> <col>")
				continue
			}

			if err := client.SubmitMove(ctx, row, col); err != nil {
				log.Info("move rejected", "reason", err.Error())
			}
		case "rematch":
			if err := client.RequestRematch(ctx); err != nil {
				log.Info("rematch rejected", "reason", err.Error())
			}
		case "chat":
			if err := client.SendChat(ctx, strings.Join(fields[1:], " ")); err != nil {
				log.Error("failed to send chat", "error", err)
			}
		case "state":
			view := client.Snapshot()
			if !view.Store.HasState() {
				log.Info("no broadcast received yet", "role", string(view.Role))
				continue
			}

			log.Info("session state",
				"role", string(view.Role),
				"mark", view.Mark,
				"status", view.Store.Status,
				"turn", view.Store.CurrentPlayer,
				"rematch", view.RematchPhase.String(),
				"ready", fmt.Sprintf("%d/2", view.ReadyCount),
			)
		case "quit":
			return
		default:
			log.Info("commands: move <row> <col> | rematch | chat <text> | state | quit")
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func reportUpdates(logger *slog.Logger, client *session.Client) {
	log := logger.With("component", "updates")

	for update := range client.Updates() {
		switch {
		case update.Chat != nil:
			log.Info("chat", "player", update.Chat.Player, "message", update.Chat.Message)
		case update.RematchCompleted:
			view := client.Snapshot()
			log.Info("rematch started", "mark", view.Mark)
		case update.Frame != nil:
			log.Info("state",
				"status", update.Frame.Status,
				"turn", update.Frame.CurrentPlayer,
				"creatorPresent", update.Frame.PlayerXPresent,
				"joinerPresent", update.Frame.PlayerOPresent,
			)
		}
	}
}

func runLocal(ctx context.Context, logger *slog.Logger, api *rest.Client, aiMode bool) error {
	log := logger.With("component", "app", "mode", "local")

	game, err := hotseat.New(ctx, logger, api, aiMode)
	if err != nil {
		return err
	}

	log.Info("local game started", "gameID", game.ID(), "ai", aiMode)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "move":
			if len(fields) != 3 {
				log.Info("usage: move <row> <col>")
				continue
			}

			row, errRow := strconv.Atoi(fields[1])
			col, errCol := strconv.Atoi(fields[2])
			if errRow != nil || errCol != nil {
				log.Info("usage: move <row> <col>")
				continue
			}

			frame, moveErr := game.Move(ctx, row, col)
			if moveErr != nil {
				log.Info("move rejected", "reason", moveErr.Error())
				continue
			}

			log.Info("state", "status", frame.Status, "turn", frame.CurrentPlayer)
		case "restart":
			if err = game.Restart(ctx, aiMode); err != nil {
				log.Error("failed to restart", "error", err)
			}
		case "quit":
			return nil
		default:
			log.Info("commands: move <row> <col> | restart | quit")
		}

		if ctx.Err() != nil {
			return nil
		}
	}

	return nil
}

func newConnection(logger *slog.Logger, conf *config.Config) (connection, error) {
	switch conf.Transport {
	case "redis":
		return redistransport.New(logger, conf.Redis.GetRedisAddr()), nil
	case "websocket":
		return wstransport.New(logger, conf.WebsocketURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransport, conf.Transport)
	}
}
