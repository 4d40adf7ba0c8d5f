package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSort_Order(t *testing.T) {
	order, err := topoSort(3, func(i int) []int {
		switch i {
		case 0:
			return []int{2}
		case 1:
			return nil
		default:
			return []int{1}
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestTopoSort_Cycle(t *testing.T) {
	_, err := topoSort(2, func(i int) []int {
		if i == 0 {
			return []int{1}
		}

		return []int{0}
	})
	assert.Error(t, err)
}

func TestOrderFunctions(t *testing.T) {
	fns := []function{
		{Name: "hm2_5i20.0.pet_watchdog", Stage: stageWatchdog},
		{Name: "abs.spindle", Stage: stageCompute, After: []string{"pid.s.do-pid-calcs"}},
		{Name: "hm2_5i20.0.write", Stage: stageWrite},
		{Name: "motion-controller", Stage: stageMotion, After: []string{"motion-command-handler"}},
		{Name: "pid.s.do-pid-calcs", Stage: stageCompute},
		{Name: "motion-command-handler", Stage: stageMotion},
		{Name: "hm2_5i20.0.read", Stage: stageRead},
	}

	got, err := orderFunctions(fns)
	require.NoError(t, err)

	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{
		"hm2_5i20.0.read",
		"motion-command-handler",
		"motion-controller",
		"pid.s.do-pid-calcs",
		"abs.spindle",
		"hm2_5i20.0.write",
		"hm2_5i20.0.pet_watchdog",
	}, names)
}
