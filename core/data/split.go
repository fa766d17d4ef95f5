package data

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/yursur/FEDOT/pkg/errors"
)

// defaultSeed is used whenever shuffling is on and no seed was supplied.
const defaultSeed int64 = 42

// SplitParams configures TrainTestSplit.
type SplitParams struct {
	// Ratio is the share of samples that goes to the train partition.
	Ratio float64

	// Shuffle randomizes the sample order before splitting. Stratification
	// forces it on.
	Shuffle bool

	// Stratify requests a class-preserving split. Only honored for
	// classification tasks on datasets that can support it.
	Stratify bool

	// Seed drives the shuffle. Nil means the default seed when shuffling
	// is on; when shuffling is off the split is purely positional and no
	// seed is used.
	Seed *int64

	// ValidationBlocks multiplies the forecast horizon held out by a
	// time-series split. Zero selects out-of-sample mode.
	ValidationBlocks int
}

// DefaultSplitParams returns the canonical split configuration: 80/20,
// positional order, stratification when feasible.
func DefaultSplitParams() SplitParams {
	return SplitParams{Ratio: 0.8, Stratify: true}
}

// TrainTestSplit produces disjoint train/test partitions of d. The strategy
// is selected by the container's data type: time-series containers get a
// deterministic contiguous split on the forecast horizon, everything else an
// index-based random or stratified split with 1-Ratio as the test fraction.
func TrainTestSplit(d *InputData, p SplitParams) (*InputData, *InputData, error) {
	switch d.DataType {
	case Ts, MultiTs:
		return splitTimeSeries(d, p.ValidationBlocks)
	case Table, Image, Text:
		// index-based split below
	default:
		return nil, nil, errors.NewUnsupportedDataTypeError("data.TrainTestSplit",
			d.DataType.String(),
			[]string{Table.String(), Ts.String(), MultiTs.String(), Image.String(), Text.String()})
	}

	if p.Ratio <= 0 || p.Ratio >= 1 {
		return nil, nil, errors.NewValidationError("Ratio", "must be strictly between 0 and 1", p.Ratio)
	}

	allowed, err := stratificationAllowed(d, p.Ratio)
	if err != nil {
		return nil, nil, err
	}
	stratify := p.Stratify && allowed
	// Stratification is only meaningful on shuffled data, and shuffling
	// requires a seed.
	shuffle := p.Shuffle || stratify
	seed := defaultSeed
	if p.Seed != nil {
		seed = *p.Seed
	}

	return splitAny(d, p.Ratio, shuffle, stratify, seed)
}

// TrainTestSplitMultiModal splits every source of m independently with one
// shared seed so that sample alignment across sources is preserved. When no
// seed is supplied one is drawn at random.
func TrainTestSplitMultiModal(m MultiModal, p SplitParams) (MultiModal, MultiModal, error) {
	if _, err := m.Len(); err != nil {
		return nil, nil, err
	}

	if p.Seed == nil {
		seed := rand.Int63()
		p.Seed = &seed
	}

	train, test := MultiModal{}, MultiModal{}
	for _, key := range m.Sources() {
		trainPart, testPart, err := TrainTestSplit(m[key], p)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "source %q", key)
		}
		train[key] = trainPart
		test[key] = testPart
	}

	return train, test, nil
}

// splitTimeSeries holds out the last forecast_length*max(validationBlocks,1)
// samples as test. In out-of-sample mode (no validation blocks) the test
// container consumes the train features as its forecasting history while the
// target stays the held-out future values.
func splitTimeSeries(d *InputData, validationBlocks int) (*InputData, *InputData, error) {
	horizon := d.Task.Params.ForecastLength
	if horizon <= 0 {
		return nil, nil, errors.NewValidationError("ForecastLength", "must be positive for a time-series split", horizon)
	}
	if validationBlocks > 0 {
		horizon *= validationBlocks
	}

	n := d.Len()
	if horizon >= n {
		return nil, nil, errors.NewValidationError("ForecastLength",
			"held-out horizon must be shorter than the series", horizon)
	}

	train, err := d.Slice(0, n-horizon)
	if err != nil {
		return nil, nil, err
	}
	test, err := d.Slice(n-horizon, n)
	if err != nil {
		return nil, nil, err
	}

	test.SqueezeTarget()

	if validationBlocks == 0 {
		// Out-of-sample forecasting: predictions for the held-out target
		// are made from the train history only.
		test.Features = train.Features
	}

	return train, test, nil
}

func splitAny(d *InputData, ratio float64, shuffle, stratify bool, seed int64) (*InputData, *InputData, error) {
	n := d.Len()
	testSize := int(math.Round(float64(n) * (1 - ratio)))
	if testSize < 1 || testSize >= n {
		return nil, nil, errors.NewValidationError("Ratio", "split leaves an empty partition", ratio)
	}

	if !shuffle {
		train, err := d.Slice(0, n-testSize)
		if err != nil {
			return nil, nil, err
		}
		test, err := d.Slice(n-testSize, n)
		if err != nil {
			return nil, nil, err
		}
		return train, test, nil
	}

	rng := rand.New(rand.NewSource(seed))

	var trainRows, testRows []int
	if stratify {
		trainRows, testRows = stratifiedRows(d, testSize, ratio, rng)
	} else {
		perm := rng.Perm(n)
		testRows = perm[:testSize]
		trainRows = perm[testSize:]
	}

	train, err := d.SliceByIndex(trainRows)
	if err != nil {
		return nil, nil, err
	}
	test, err := d.SliceByIndex(testRows)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// stratifiedRows assigns every class at least one sample to each partition
// and matches the requested test size exactly. Feasibility (all counts >= 2,
// both partitions >= class count) has been checked by the caller.
func stratifiedRows(d *InputData, testSize int, ratio float64, rng *rand.Rand) (trainRows, testRows []int) {
	labels, members := classMembers(d)

	perClass := make([]int, len(labels))
	total := 0
	for i, label := range labels {
		count := len(members[label])
		t := int(math.Round(float64(count) * (1 - ratio)))
		if t < 1 {
			t = 1
		}
		if t > count-1 {
			t = count - 1
		}
		perClass[i] = t
		total += t
	}

	// Largest-remainder style adjustment towards the exact test size.
	for total > testSize {
		for i := range perClass {
			if total == testSize {
				break
			}
			if perClass[i] > 1 {
				perClass[i]--
				total--
			}
		}
	}
	for total < testSize {
		for i, label := range labels {
			if total == testSize {
				break
			}
			if perClass[i] < len(members[label])-1 {
				perClass[i]++
				total++
			}
		}
	}

	for i, label := range labels {
		rows := append([]int(nil), members[label]...)
		rng.Shuffle(len(rows), func(a, b int) { rows[a], rows[b] = rows[b], rows[a] })
		testRows = append(testRows, rows[:perClass[i]]...)
		trainRows = append(trainRows, rows[perClass[i]:]...)
	}

	rng.Shuffle(len(trainRows), func(a, b int) { trainRows[a], trainRows[b] = trainRows[b], trainRows[a] })
	rng.Shuffle(len(testRows), func(a, b int) { testRows[a], testRows[b] = testRows[b], testRows[a] })
	return trainRows, testRows
}

// stratificationAllowed checks that a stratified split can be done. Outside
// test binaries a single-occurrence class is a data-validation error naming
// the offending labels; under `go test` stratification is silently disabled
// instead, since tests often run on datasets too small to split by class.
func stratificationAllowed(d *InputData, ratio float64) (bool, error) {
	if d.Task.Type != Classification {
		return false, nil
	}

	labels, members := classMembers(d)

	var single []string
	for _, label := range labels {
		if len(members[label]) < 2 {
			single = append(single, label)
		}
	}
	if len(single) > 0 {
		if testing.Testing() {
			errors.Warn(&errors.StratificationWarning{
				Reason: "classes with a single occurrence in a test binary",
			})
			return false, nil
		}
		return false, errors.NewStratificationError(d.Task.Type.String(), single)
	}

	// Both partitions must be able to hold one sample of every class,
	// otherwise the per-class assignment cannot reach the requested sizes.
	testSize := int(math.Round(float64(d.Len()) * (1 - ratio)))
	if testSize < len(labels) {
		return false, nil
	}
	if d.Len()-testSize < len(labels) {
		return false, nil
	}

	return true, nil
}

// classMembers groups row positions by class label, label order by first
// appearance.
func classMembers(d *InputData) (labels []string, members map[string][]int) {
	members = make(map[string][]int)
	n := d.Len()
	for i := 0; i < n; i++ {
		label := strconv.FormatFloat(d.Target.At(i, 0), 'g', -1, 64)
		if _, seen := members[label]; !seen {
			labels = append(labels, label)
		}
		members[label] = append(members[label], i)
	}
	return labels, members
}
