package anthropic

// BuildCachedSystemBlocks constructs a single system block with an ephemeral
// cache breakpoint at the given TTL ("5m" or "1h").
func BuildCachedSystemBlocks(text string, ttl string) []SystemBlock {
	return []SystemBlock{
		{
			Text: text,
			CacheControl: &CacheControl{
				TTL: ttl,
			},
		},
	}
}
