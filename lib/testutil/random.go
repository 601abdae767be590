package testutil

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/mazen160/go-random"
)

// RandomSwitch returns a function that will output various integers at different weights.
//
// Ex. RandomSwitch(2, 3, 5) will return a function that will output:
//   - `0` 20% of the time
//   - `1` 30% of the time
//   - `2` 50% of the time
func RandomSwitch(weights ...int) func(rndm *rand.Rand) int {
	if len(weights) == 0 {
		panic("a random switch must have at least 1 probability")
	}

	var sum int
	for _, p := range weights {
		if p == 0 {
			panic("cannot have weight that is 0")
		}
		sum += p
	}

	return func(rndm *rand.Rand) int {
		value := rndm.Intn(sum)

		threshold := 0
		for i := 0; i < len(weights); i++ {
			threshold += weights[i]
			if value < threshold {
				return i
			}
		}

		panic(fmt.Sprintf("random value generated was out of bounds: %d", value))
	}
}

// RandomString generates a random lowercase string given the pseudo random source.
func RandomString(rndm *rand.Rand, length int) string {
	str := make([]rune, length)
	for i := range length {
		str[i] = 'a' + rune(rndm.Intn(26))
	}
	return string(str)
}

// RandomCourseCode generates a code shaped like "T3INF1002" or "T3INF1001.2".
func RandomCourseCode(rndm *rand.Rand) string {
	prefix := []rune{'T', rune('0' + rndm.Intn(10))}
	for range 3 {
		prefix = append(prefix, 'A'+rune(rndm.Intn(26)))
	}
	code := fmt.Sprintf("%s%04d", string(prefix), rndm.Intn(10000))
	if RandomSwitch(3, 1)(rndm) == 1 {
		code += fmt.Sprintf(".%d", 1+rndm.Intn(12))
	}
	return code
}

// Seed returns a fresh pseudo random source, the seed is logged so failures
// can be reproduced.
func Seed(t testing.TB) *rand.Rand {
	seed := time.Now().UnixNano()
	t.Logf("random seed: %d", seed)
	return rand.New(rand.NewSource(seed))
}

// RandomName returns an unpredictable display name made of two words.
func RandomName(t testing.TB) string {
	first, err := random.String(8)
	if err != nil {
		t.Fatal(err)
	}
	second, err := random.String(5)
	if err != nil {
		t.Fatal(err)
	}
	return first + " " + second
}
