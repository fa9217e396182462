package runner

import (
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/filters"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// Label key constants define the Docker label keys put on every container
// the DockerRunner creates. They identify gopherlings containers so that
// leftovers from an interrupted session can be found and removed.
//
// All keys share the "gopherlings." prefix to avoid collisions with
// labels set by other tools.
const (
	// LabelPrefix is the common prefix for all gopherlings labels.
	LabelPrefix = "gopherlings."

	// LabelManagedBy identifies containers created by gopherlings.
	// Key: "gopherlings.managed-by", Value: always ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelExercise stores the name of the exercise being checked.
	LabelExercise = LabelPrefix + "exercise"

	// LabelMode stores the exercise mode (run, test, vet).
	LabelMode = LabelPrefix + "mode"

	// LabelProject stores the absolute path of the bind-mounted project.
	LabelProject = LabelPrefix + "project"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "gopherlings"

// BuildLabels constructs the label map for the container that checks ex.
func BuildLabels(ex *model.Exercise, projectRoot string) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelExercise:  ex.Name,
		LabelMode:      ex.Mode.String(),
		LabelProject:   projectRoot,
	}
}

// ParseExerciseLabel returns the exercise name recorded on a container,
// verifying that the container is actually managed by gopherlings.
func ParseExerciseLabel(labels map[string]string) (string, error) {
	var missing []string
	for _, key := range []string{LabelManagedBy, LabelExercise} {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}
	if labels[LabelManagedBy] != ManagedByValue {
		return "", fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}
	return labels[LabelExercise], nil
}

// ManagedFilter returns the Docker API filter that matches only
// gopherlings containers for the given project. An empty projectRoot
// matches containers from every project.
func ManagedFilter(projectRoot string) filters.Args {
	args := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)
	if projectRoot != "" {
		args.Add("label", LabelProject+"="+projectRoot)
	}
	return args
}
