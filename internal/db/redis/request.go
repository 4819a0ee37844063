package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
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
	completed := s.client.B().Arbitrary(cmd.Tokens()...).Args(cmd.ArgTokens()...).Build()
	msg, err := s.client.Do(ctx, completed).ToMessage()
	if rueidis.IsRedisNil(err) {
		// A null reply is a valid frame, not a failure.
		err = nil
	}
	elapsed := time.Since(start)
	metrics.ObserveCommand(cmd.Kind, elapsed.Seconds(), err)
	tracing.EndCommand(span, err)

	if err != nil {
		log.Debug("command failed",
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		if re, ok := rueidis.IsRedisErr(err); ok {
			return nil, db.MapServerError(cmd.Kind, re)
		}
		return nil, &db.Error{Op: cmd.Kind, Err: err}
	}

	log.Debug("command sent",
		zap.Int("nargs", len(cmd.Args)),
		zap.Duration("latency", elapsed),
	)
	return frame{msg: msg}, nil
}

// frame adapts a rueidis reply to db.Frame.
type frame struct {
	msg rueidis.RedisMessage
}

func (f frame) Decode() (db.Value, error) {
	return decodeMessage(f.msg)
}

func decodeMessage(m rueidis.RedisMessage) (db.Value, error) {
	// Error reports rueidis.Nil for null frames, so IsNil goes first.
	if m.IsNil() {
		return db.Null(), nil
	}
	if err := m.Error(); err != nil {
		return db.Value{}, err
	}

	switch {
	case m.IsInt64():
		i, err := m.ToInt64()
		if err != nil {
			return db.Value{}, fmt.Errorf("decode integer: %w", err)
		}
		return db.Int(i), nil
	case m.IsFloat64():
		f, err := m.ToFloat64()
		if err != nil {
			return db.Value{}, fmt.Errorf("decode double: %w", err)
		}
		return db.Float(f)
	case m.IsBool():
		b, err := m.ToBool()
		if err != nil {
			return db.Value{}, fmt.Errorf("decode boolean: %w", err)
		}
		return db.Bool(b), nil
	case m.IsString():
		s, err := m.ToString()
		if err != nil {
			return db.Value{}, fmt.Errorf("decode string: %w", err)
		}
		return db.String(s), nil
	case m.IsMap():
		raw, err := m.ToMap()
		if err != nil {
			return db.Value{}, fmt.Errorf("decode map: %w", err)
		}
		out := make(map[string]db.Value, len(raw))
		for k, e := range raw {
			v, err := decodeMessage(e)
			if err != nil {
				return db.Value{}, fmt.Errorf("decode map entry %q: %w", k, err)
			}
			out[k] = v
		}
		return db.Map(out), nil
	case m.IsArray():
		raw, err := m.ToArray()
		if err != nil {
			return db.Value{}, fmt.Errorf("decode array: %w", err)
		}
		out := make([]db.Value, len(raw))
		for i := range raw {
			v, err := decodeMessage(raw[i])
			if err != nil {
				return db.Value{}, fmt.Errorf("decode array item %d: %w", i, err)
			}
			out[i] = v
		}
		return db.Array(out...), nil
	}

	return db.Value{}, fmt.Errorf("unsupported reply frame: %s", m.String())
}
