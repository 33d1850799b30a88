package cli

import "fmt"

// CacheClearCmd removes every cached distance from the configured backend
type CacheClearCmd struct{}

func (c *CacheClearCmd) Run(ctx *Context) error {
	cache, closeCache, err := OpenCache(ctx.Ctx, ctx.Config)
	if err != nil {
		return err
	}
	defer closeCache()

	if err := cache.Clear(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to clear distance cache: %w", err)
	}
	fmt.Printf("✅ Cleared %s distance cache\n", ctx.Config.Cache.Backend)
	return nil
}
