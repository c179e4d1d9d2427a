package xconf

// Option 配置加载选项。
type Option func(*options)

type options struct {
	delim string
	tag   string
}

func defaultOptions() options {
	return options{delim: ".", tag: "koanf"}
}

// WithDelim 设置键分隔符，默认 "."（如 "pool.workers"）。空值被忽略。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签，默认 "koanf"。空值被忽略。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
