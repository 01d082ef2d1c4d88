package translate

// Reply is a chainable response under construction, as handed back by a
// framework's reply function.
type Reply interface {
	Type(mimeType string) Reply
	Code(statusCode int) Reply
	Header(name, value string) Reply
}

// ReplyFunc starts a response with the given body.
type ReplyFunc func(payload Payload) Reply

// ToReply is the builder adapter: it translates err, passes the payload to
// reply, and configures content type, status code, and extra headers on the
// result. Whatever reply panics with is not recovered.
func ToReply(err any, reply ReplyFunc) (Reply, error) {
	s, ierr := inspect(err)
	if ierr != nil {
		return nil, ierr
	}

	if reply == nil {
		return nil, &ArgumentError{Argument: "reply", Reason: "must be a function"}
	}

	o, cerr := classify(s)
	if cerr != nil {
		return nil, cerr
	}

	return o.Reply(reply), nil
}

// Reply builds a response for an already translated outcome. reply must not
// be nil.
func (o *Outcome) Reply(reply ReplyFunc) Reply {
	r := reply(o.Payload()).
		Type(o.Headers[HeaderContentType]).
		Code(o.StatusCode)

	for _, name := range o.extraHeaders() {
		r = r.Header(name, o.Headers[name])
	}

	return r
}
