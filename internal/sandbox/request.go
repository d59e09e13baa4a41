package sandbox

// Options are the per-call execution parameters.
type Options struct {
	Stdin string
	// CompileTimeout and RunTimeout are in seconds and enforced remotely.
	CompileTimeout int
	RunTimeout     int
	MemoryLimitMB  int
	Language       string
}

// DefaultOptions returns the defaults used for zero-valued fields.
func DefaultOptions() Options {
	return Options{
		CompileTimeout: 10,
		RunTimeout:     5,
		MemoryLimitMB:  128,
		Language:       DefaultLanguage,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CompileTimeout <= 0 {
		o.CompileTimeout = d.CompileTimeout
	}
	if o.RunTimeout <= 0 {
		o.RunTimeout = d.RunTimeout
	}
	if o.MemoryLimitMB <= 0 {
		o.MemoryLimitMB = d.MemoryLimitMB
	}
	if o.Language == "" {
		o.Language = d.Language
	}
	return o
}

// Request is the JSON body accepted by the execution service.
type Request struct {
	Code           string            `json:"code"`
	Stdin          string            `json:"stdin"`
	CompileTimeout int               `json:"compile_timeout"`
	RunTimeout     int               `json:"run_timeout"`
	MemoryLimitMB  int               `json:"memory_limit_MB"`
	Language       string            `json:"language"`
	Files          map[string]string `json:"files"`
	FetchFiles     []string          `json:"fetch_files"`
}

// NewRequest builds a Request. Attached and fetched files are not supported,
// so both collections are always sent empty.
func NewRequest(code string, opts Options) Request {
	return Request{
		Code:           code,
		Stdin:          opts.Stdin,
		CompileTimeout: opts.CompileTimeout,
		RunTimeout:     opts.RunTimeout,
		MemoryLimitMB:  opts.MemoryLimitMB,
		Language:       opts.Language,
		Files:          map[string]string{},
		FetchFiles:     []string{},
	}
}

// CommandResult describes one compile or run phase.
type CommandResult struct {
	Status        string  `json:"status"`
	ExecutionTime float64 `json:"execution_time"`
	ReturnCode    *int    `json:"return_code"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
}

// Result is the decoded success body of the execution service.
type Result struct {
	Status          string            `json:"status"`
	Message         string            `json:"message"`
	CompileResult   *CommandResult    `json:"compile_result"`
	RunResult       *CommandResult    `json:"run_result"`
	ExecutorPodName string            `json:"executor_pod_name"`
	Files           map[string]string `json:"files"`

	// Raw holds the full response object, including fields not modeled above.
	Raw map[string]any `json:"-"`
}

// Stdout returns the run phase stdout, or "" when the program never ran.
func (r *Result) Stdout() string {
	if r == nil || r.RunResult == nil {
		return ""
	}
	return r.RunResult.Stdout
}

// Stderr returns the run phase stderr, falling back to compiler output.
func (r *Result) Stderr() string {
	if r == nil {
		return ""
	}
	if r.RunResult != nil && r.RunResult.Stderr != "" {
		return r.RunResult.Stderr
	}
	if r.CompileResult != nil {
		return r.CompileResult.Stderr
	}
	return ""
}
