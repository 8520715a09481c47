package commands

type RootArgs struct {
	logLevel  *string
	logFormat *string
	source    *string
	dest      *string
	strict    *bool
	verify    *bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{
		logLevel:  new(string),
		logFormat: new(string),
		source:    new(string),
		dest:      new(string),
		strict:    new(bool),
		verify:    new(bool),
	}
}

func (a *RootArgs) GetLogLevel() string {
	return *a.logLevel
}

func (a *RootArgs) GetLogFormat() string {
	return *a.logFormat
}

func (a *RootArgs) GetSource() string {
	return *a.source
}

func (a *RootArgs) GetDest() string {
	return *a.dest
}

func (a *RootArgs) GetStrict() bool {
	return *a.strict
}

func (a *RootArgs) GetVerify() bool {
	return *a.verify
}
