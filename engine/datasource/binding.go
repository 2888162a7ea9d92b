package datasource

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/batch"
	corepkg "github.com/cah-jamey-weyenberg/great-expectations/engine/core"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/validator"
	"github.com/cah-jamey-weyenberg/great-expectations/pkg/logger"
)

// binding is the static per-loader configuration: the name of the
// primary argument, the default identifier policy (nil means apply the
// whitespace heuristic) and the pass-through arguments to exclude from
// the recorded request.
type binding struct {
	name           string
	primaryArgName string
	defaultUseAsID *bool
	excludedArgs   map[string]int // argument name -> 1-based positional index
}

// loaderFunc performs the actual load. Its errors propagate to the
// caller unwrapped.
type loaderFunc func(ctx context.Context, primary any, args []any, kwargs map[string]any) (*dataframe.DataFrame, error)

var whitespaceRE = regexp.MustCompile(`\s`)

// usePrimaryArgAsIdentifier is the path-vs-content discriminator: a
// string with no whitespace is assumed to name where the data came
// from. This is a crude, documented heuristic, not a contract.
func usePrimaryArgAsIdentifier(primary any) bool {
	s, ok := primary.(string)
	if !ok {
		return false
	}
	return !whitespaceRE.MatchString(s)
}

// removeExcludedArguments drops non-serializable pass-through
// arguments (e.g. live connections) from the recorded args and kwargs.
// Positions are 1-based into the extra positional arguments.
func removeExcludedArguments(excluded map[string]int, args []any, kwargs map[string]any) ([]any, map[string]any) {
	removeIndices := make(map[int]bool, len(excluded))
	for name, index := range excluded {
		delete(kwargs, name)
		removeIndices[index-1] = true
	}
	kept := make([]any, 0, len(args))
	for i, arg := range args {
		if !removeIndices[i] {
			kept = append(kept, arg)
		}
	}
	return kept, kwargs
}

// load is the uniform adapter shared by every Read method. It resolves
// the load identifier, timestamps the call, rehydrates a by-name
// primary argument, delegates to fn, filters excluded arguments out of
// the recorded request and returns a validator bound to the single
// resolved batch.
func (d *ReaderDatasource) load(
	ctx context.Context,
	b binding,
	fn loaderFunc,
	primary any,
	opts ...LoadOption,
) (*validator.Validator, error) {
	set := applyOptions(opts)

	if set.id != nil && set.usePrimaryAsID != nil && *set.usePrimaryAsID {
		return nil, corepkg.NewConfigError("id cannot be specified when use_primary_arg_as_id is also true")
	}

	id := set.id
	if id == nil {
		useAsID := set.usePrimaryAsID
		if useAsID == nil {
			useAsID = b.defaultUseAsID
		}
		use := false
		if useAsID == nil {
			use = usePrimaryArgAsIdentifier(primary)
		} else {
			use = *useAsID
		}
		if use && primary != nil {
			s := fmt.Sprint(primary)
			id = &s
		}
	}

	timestamp := time.Now()
	if set.timestamp != nil {
		timestamp = *set.timestamp
	}

	if b.primaryArgName != "" {
		if v, ok := set.kwargs[b.primaryArgName]; ok {
			if primary != nil {
				return nil, &corepkg.AmbiguousArgumentError{Loader: b.name, Arg: b.primaryArgName}
			}
			primary = v
			delete(set.kwargs, b.primaryArgName)
		}
	}

	logger.FromContext(ctx).Debug("loading batch",
		"datasource", d.name, "loader", b.name, "asset", defaultAssetName)

	df, err := fn(ctx, primary, set.args, set.kwargs)
	if err != nil {
		return nil, err
	}

	args, kwargs := removeExcludedArguments(b.excludedArgs, set.args, set.kwargs)

	req := &batch.RuntimeRequest{
		DatasourceName:    d.name,
		DataConnectorName: runtimeConnectorName,
		DataAssetName:     defaultAssetName,
		RuntimeParameters: batch.RuntimeParameters{
			Data:   df,
			Args:   args,
			Kwargs: kwargs,
		},
		BatchIdentifiers: batch.Identifiers{
			ID:        id,
			Timestamp: timestamp,
		},
	}
	resolved, err := d.connector.GetSingleBatchFromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve batch: %w", err)
	}
	return validator.New(d.engine, set.expectationSuite, []*batch.Batch{resolved})
}

func boolPtr(b bool) *bool {
	return &b
}
