package scenario

import "sync"

// runParallel evaluates fn for each index in [0, n) on its own goroutine.
// Each fn call owns its model state end to end, so runs stay
// single-threaded internally. The first error wins.
func runParallel(n int, fn func(i int) error) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = fn(idx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
