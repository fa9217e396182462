// Package runner implements the compile+test operation for a single
// exercise.
//
// Two backends are provided:
//   - LocalRunner shells out to the Go toolchain on the host
//     (go run / go test / go vet, depending on the exercise mode)
//   - DockerRunner executes the same toolchain command inside a throwaway
//     container, with the project bind-mounted and a shared build cache
//     volume, for learners who do not want a host Go install
//
// Both report a Result (passed or not, plus captured output). An error is
// only returned for infrastructure failures such as a missing toolchain or
// an unreachable Docker daemon; a failing exercise is never an error.
//
// The Docker backend uses github.com/docker/docker/client as the underlying
// SDK, with version negotiation enabled for broad compatibility.
package runner
