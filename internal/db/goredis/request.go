package goredis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftwire/internal/db"
	logpkg "github.com/kailas-cloud/ftwire/internal/logger"
	"github.com/kailas-cloud/ftwire/internal/metrics"
	"github.com/kailas-cloud/ftwire/internal/tracing"
)

// RequestResponse builds the command only when about to send it. A cancelled
// context skips the builder entirely; a build error sends nothing.
func (s *Store) RequestResponse(ctx context.Context, build db.BuildFunc) (db.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmd, err := build()
	log := logpkg.ForCommand(ctx, s.logger, cmd.Kind)
	if err != nil {
		metrics.ObserveBuildError(cmd.Kind)
		log.Warn("command build failed", zap.Error(err))
		return nil, &db.Error{Op: cmd.Kind, Err: err}
	}

	ctx, span := tracing.StartCommand(ctx, cmd.Kind, len(cmd.Args))
	start := time.Now()
	reply, err := s.client.Do(ctx, commandArgs(cmd)...).Result()
	if errors.Is(err, redis.Nil) {
		reply, err = nil, nil
	}
	elapsed := time.Since(start)
	metrics.ObserveCommand(cmd.Kind, elapsed.Seconds(), err)
	tracing.EndCommand(span, err)

	if err != nil {
		log.Debug("command failed",
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		var rerr redis.Error
		if errors.As(err, &rerr) {
			return nil, db.MapServerError(cmd.Kind, err)
		}
		return nil, &db.Error{Op: cmd.Kind, Err: err}
	}

	log.Debug("command sent",
		zap.Int("nargs", len(cmd.Args)),
		zap.Duration("latency", elapsed),
	)
	return frame{reply: reply}, nil
}

func commandArgs(cmd db.Command) []any {
	tokens := cmd.Tokens()
	args := make([]any, 0, len(tokens)+len(cmd.Args))
	for _, t := range tokens {
		args = append(args, t)
	}
	for _, t := range cmd.ArgTokens() {
		args = append(args, t)
	}
	return args
}

// frame adapts a go-redis reply to db.Frame.
type frame struct {
	reply any
}

func (f frame) Decode() (db.Value, error) {
	return decodeReply(f.reply)
}

func decodeReply(r any) (db.Value, error) {
	switch v := r.(type) {
	case nil:
		return db.Null(), nil
	case string:
		return db.String(v), nil
	case []byte:
		return db.Bytes(v), nil
	case int64:
		return db.Int(v), nil
	case float64:
		return db.Float(v)
	case bool:
		return db.Bool(v), nil
	case redis.Error:
		return db.Value{}, v
	case []any:
		out := make([]db.Value, len(v))
		for i := range v {
			e, err := decodeReply(v[i])
			if err != nil {
				return db.Value{}, fmt.Errorf("decode array item %d: %w", i, err)
			}
			out[i] = e
		}
		return db.Array(out...), nil
	case map[any]any:
		out := make(map[string]db.Value, len(v))
		for k, e := range v {
			key := fmt.Sprint(k)
			val, err := decodeReply(e)
			if err != nil {
				return db.Value{}, fmt.Errorf("decode map entry %q: %w", key, err)
			}
			out[key] = val
		}
		return db.Map(out), nil
	case map[string]any:
		out := make(map[string]db.Value, len(v))
		for k, e := range v {
			val, err := decodeReply(e)
			if err != nil {
				return db.Value{}, fmt.Errorf("decode map entry %q: %w", k, err)
			}
			out[k] = val
		}
		return db.Map(out), nil
	}
	return db.Value{}, fmt.Errorf("unsupported reply frame of type %T", r)
}
