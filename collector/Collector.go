// Package collector implements on-policy batch collection with
// generalized advantage estimation of both rewards and costs
package collector

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/focops/agent"
	"github.com/samuelfneumann/focops/buffer/batch"
	"github.com/samuelfneumann/focops/buffer/delay"
	"github.com/samuelfneumann/focops/buffer/episode"
	"github.com/samuelfneumann/focops/buffer/gae"
	"github.com/samuelfneumann/focops/environment"
	"github.com/samuelfneumann/focops/timestep"
	"github.com/samuelfneumann/focops/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Normalizer normalizes raw environment observations
type Normalizer interface {
	Normalize(obs mat.Vector) (*mat.VecDense, error)
}

// ScoreQueue receives the return of each counted episode
type ScoreQueue interface {
	Append(x float64)
}

// Stats summarizes the episodes of a collected batch
type Stats struct {
	// AvgCost and StdCost are the mean and population standard
	// deviation of the discounted cost returns of counted episodes
	AvgCost float64
	StdCost float64

	// AvgEpisodeLength is the running average length of counted
	// episodes
	AvgEpisodeLength float64

	// AvgReturn is the mean undiscounted return of counted episodes
	AvgReturn float64

	// Episodes is the number of counted episodes. If zero, all other
	// statistics are zero.
	Episodes int
}

// Collector collects fixed-size batches of on-policy experience from an
// environment. Each observation is augmented with the most recent
// actions taken, and episodes are stored whole before their reward and
// cost advantages are computed and written to the batch.
//
// An episode is counted in the returned Stats and score queues if it
// ends because the environment signalled the end of the episode or
// because it reached the maximum episode length. Episodes cut short
// because the batch filled up are only counted if
// Config.CountPartialEpisodes is set, so by default the average
// episode length only reflects episodes that ran to completion.
//
// A Collector is not safe for concurrent use.
type Collector struct {
	env    environment.Environment
	config Config

	obsDims    int
	actionDims int
	features   int

	history *delay.History
	buffer  *episode.Buffer

	normalizer Normalizer
	score      ScoreQueue
	costScore  ScoreQueue

	logger zerolog.Logger
}

// New returns a new Collector which collects experience from env
func New(env environment.Environment, config Config) (*Collector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	obsDims := env.ObservationSpec().Dims()
	actionDims := env.ActionSpec().Dims()
	features := delay.Features(obsDims, actionDims, config.DelaySteps)

	history, err := delay.NewHistory(config.DelaySteps, actionDims)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	buffer, err := episode.New(features, actionDims, config.MaxEpisodeLength)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &Collector{
		env:        env,
		config:     config,
		obsDims:    obsDims,
		actionDims: actionDims,
		features:   features,
		history:    history,
		buffer:     buffer,
		logger:     zerolog.Nop(),
	}, nil
}

// SetNormalizer sets the normalizer applied to raw observations before
// they are augmented. A nil Normalizer disables normalization.
func (c *Collector) SetNormalizer(n Normalizer) {
	c.normalizer = n
}

// Register registers the queues which receive the undiscounted return
// and discounted cost return of each counted episode. Either may be
// nil.
func (c *Collector) Register(score, costScore ScoreQueue) {
	c.score = score
	c.costScore = costScore
}

// SetLogger sets the logger of the Collector
func (c *Collector) SetLogger(logger zerolog.Logger) {
	c.logger = logger.With().Str("component", "collector").Logger()
}

// Features returns the dimension of augmented observations
func (c *Collector) Features() int {
	return c.features
}

// ActionDims returns the dimension of actions
func (c *Collector) ActionDims() int {
	return c.actionDims
}

// Config returns the configuration of the Collector
func (c *Collector) Config() Config {
	return c.config
}

// Collect runs policy in the environment until a batch of exactly
// BatchSize transitions has been collected. Advantages and value
// targets are computed for rewards using valueFn and for costs using
// costValueFn, and both advantage columns are normalized once the
// batch is full.
func (c *Collector) Collect(policy agent.Policy, valueFn,
	costValueFn agent.ValueFunction) (*batch.Batch, Stats, error) {
	b, err := batch.New(c.config.BatchSize, c.features, c.actionDims)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("collect: %v", err)
	}

	// A previous failed collection may have left a partial episode
	c.buffer.Reset()

	var (
		cursor      int
		stats       Stats
		returns     []float64
		costReturns []float64
	)

	for cursor < c.config.BatchSize {
		step, err := c.env.Reset()
		if err != nil {
			return nil, Stats{}, fmt.Errorf("collect: could not reset "+
				"environment: %w", err)
		}
		obs, err := c.observation(step)
		if err != nil {
			return nil, Stats{}, &Error{"collect", err}
		}

		c.history.Reset()
		augObs := delay.Augment(obs, c.history)

		var epReturn, epCostReturn float64
		var terminal, counted bool

		for t := 0; t < c.config.MaxEpisodeLength; t++ {
			act, err := policy.SelectAction(augObs)
			if err != nil {
				return nil, Stats{}, fmt.Errorf("collect: could not select "+
					"action: %w", err)
			}
			if len(act) != c.actionDims {
				return nil, Stats{}, &Error{"collect", fmt.Errorf("%w: "+
					"action \n\twant(%v)\n\thave(%v)", errDims, c.actionDims,
					len(act))}
			}

			next, done, err := c.env.Step(matutils.ToVecDense(act))
			if err != nil {
				return nil, Stats{}, fmt.Errorf("collect: could not step "+
					"environment: %w", err)
			}

			epReturn += next.Reward
			epCostReturn += math.Pow(c.config.CostGamma, float64(t)) * next.Cost

			if err := c.history.Push(act); err != nil {
				return nil, Stats{}, fmt.Errorf("collect: %w", err)
			}
			nextObs, err := c.observation(next)
			if err != nil {
				return nil, Stats{}, &Error{"collect", err}
			}
			nextAugObs := delay.Augment(nextObs, c.history)

			err = c.buffer.Record(t, augObs, act, nextAugObs,
				float32(next.Reward), float32(next.Cost))
			if err != nil {
				return nil, Stats{}, fmt.Errorf("collect: %w", err)
			}
			augObs = nextAugObs
			cursor++

			if done || t == c.config.MaxEpisodeLength-1 {
				counted = true
				terminal = done && next.TerminalEnd()
			}
			if done || cursor == c.config.BatchSize {
				break
			}
		}
		counted = counted || c.config.CountPartialEpisodes

		length, err := c.finishEpisode(b, terminal, valueFn, costValueFn)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("collect: %w", err)
		}

		c.logger.Debug().
			Int("length", length).
			Float64("return", epReturn).
			Float64("cost_return", epCostReturn).
			Bool("terminal", terminal).
			Bool("counted", counted).
			Int("cursor", cursor).
			Msg("Episode finished")

		if !counted {
			continue
		}
		stats.Episodes++
		stats.AvgEpisodeLength += (float64(length) - stats.AvgEpisodeLength) /
			float64(stats.Episodes)
		returns = append(returns, epReturn)
		costReturns = append(costReturns, epCostReturn)

		if c.score != nil {
			c.score.Append(epReturn)
		}
		if c.costScore != nil {
			c.costScore.Append(epCostReturn)
		}
	}

	if stats.Episodes > 0 {
		stats.AvgReturn = stat.Mean(returns, nil)
		stats.AvgCost = stat.Mean(costReturns, nil)
		stats.StdCost = math.Sqrt(stat.Moment(2, costReturns, nil))
	} else {
		c.logger.Warn().
			Int("batch_size", c.config.BatchSize).
			Int("max_episode_length", c.config.MaxEpisodeLength).
			Msg("No episode completed in batch, cost statistics are zero")
	}

	batch.Normalize(b)

	c.logger.Info().
		Int("transitions", b.Cursor()).
		Int("episodes", stats.Episodes).
		Float64("avg_return", stats.AvgReturn).
		Float64("avg_cost", stats.AvgCost).
		Float64("std_cost", stats.StdCost).
		Float64("avg_episode_length", stats.AvgEpisodeLength).
		Msg("Batch collected")

	return b, stats, nil
}

// finishEpisode computes the reward and cost advantages of the episode
// in the episode buffer, writes the episode to b, and resets the
// episode buffer. The length of the episode is returned.
func (c *Collector) finishEpisode(b *batch.Batch, terminal bool, valueFn,
	costValueFn agent.ValueFunction) (int, error) {
	defer c.buffer.Reset()

	ep, err := c.buffer.Finalize(terminal)
	if err != nil {
		return 0, err
	}

	adv, vTargets, err := gae.Estimate(ep, valueFn, float32(c.config.Gamma),
		float32(c.config.Lambda), gae.Reward)
	if err != nil {
		return 0, err
	}
	cAdv, cvTargets, err := gae.Estimate(ep, costValueFn,
		float32(c.config.CostGamma), float32(c.config.CostLambda), gae.Cost)
	if err != nil {
		return 0, err
	}

	if err := b.Write(ep, adv, vTargets, cAdv, cvTargets); err != nil {
		return 0, err
	}
	return ep.Len(), nil
}

// observation returns the possibly normalized observation of step as
// float32s
func (c *Collector) observation(step timestep.TimeStep) ([]float32, error) {
	if step.Observation == nil {
		return nil, fmt.Errorf("%w: missing observation", errDims)
	}
	if n := step.Observation.Len(); n != c.obsDims {
		return nil, fmt.Errorf("%w: observation \n\twant(%v)\n\thave(%v)",
			errDims, c.obsDims, n)
	}

	if c.normalizer == nil {
		return matutils.ToFloat32(step.Observation), nil
	}
	obs, err := c.normalizer.Normalize(step.Observation)
	if err != nil {
		return nil, fmt.Errorf("could not normalize observation: %v", err)
	}
	return matutils.ToFloat32(obs), nil
}
