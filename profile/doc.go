// Package profile adds optional runtime profiling to the displaydoc command,
// for inspecting generation runs over large source trees.
//
// Typical usage creates a [Config], registers flags, then wraps command
// execution with a [Profiler]:
//
//	cfg := profile.NewConfig()
//	p := cfg.NewProfiler()
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	err := rootCmd.Execute()
//	stopErr := p.Stop()
//
// Users can then enable profiling via flags like --cpu-profile=cpu.prof.
package profile
