package rpc

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

const (
	ExecMethod = "exec"
)

// ExecRequest asks the server to run one console line in a session.
//
//	struct ExecRequest { 1: string session, 2: string line }
type ExecRequest struct {
	Session string
	Line    string
}

// ExecReply carries the console output of one line.
//
//	struct ExecReply { 1: bool ok, 2: list<string> output, 3: string error }
type ExecReply struct {
	Ok     bool
	Output []string
	Error  string
}

var (
	_ thrift.TStruct = (*ExecRequest)(nil)
	_ thrift.TStruct = (*ExecReply)(nil)
	_ thrift.TStruct = (*execResult)(nil)
)

func NewExecRequest() *ExecRequest {
	return &ExecRequest{}
}

func (p *ExecRequest) String() string {
	return fmt.Sprintf("ExecRequest(Session: %v, Line: %q)", p.Session, p.Line)
}

func (p *ExecRequest) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typeId == thrift.STRING:
			p.Session, err = iprot.ReadString(ctx)
		case id == 2 && typeId == thrift.STRING:
			p.Line, err = iprot.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (p *ExecRequest) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "ExecRequest"); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T write struct begin error: ", p), err)
	}
	if err := writeString(ctx, oprot, "session", 1, p.Session); err != nil {
		return err
	}
	if err := writeString(ctx, oprot, "line", 2, p.Line); err != nil {
		return err
	}
	return writeStructEnd(ctx, oprot)
}

func NewExecReply() *ExecReply {
	return &ExecReply{Output: make([]string, 0)}
}

func (p *ExecReply) String() string {
	return fmt.Sprintf("ExecReply(Ok: %v, Output: %d lines, Error: %q)", p.Ok, len(p.Output), p.Error)
}

func (p *ExecReply) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typeId == thrift.BOOL:
			p.Ok, err = iprot.ReadBool(ctx)
		case id == 2 && typeId == thrift.LIST:
			p.Output, err = readStringList(ctx, iprot)
		case id == 3 && typeId == thrift.STRING:
			p.Error, err = iprot.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (p *ExecReply) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "ExecReply"); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T write struct begin error: ", p), err)
	}
	if err := oprot.WriteFieldBegin(ctx, "ok", thrift.BOOL, 1); err != nil {
		return thrift.PrependError("write field begin error 1:ok: ", err)
	}
	if err := oprot.WriteBool(ctx, p.Ok); err != nil {
		return thrift.PrependError("field 1:ok: ", err)
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "output", thrift.LIST, 2); err != nil {
		return thrift.PrependError("write field begin error 2:output: ", err)
	}
	if err := oprot.WriteListBegin(ctx, thrift.STRING, len(p.Output)); err != nil {
		return thrift.PrependError("error writing list begin: ", err)
	}
	for _, v := range p.Output {
		if err := oprot.WriteString(ctx, v); err != nil {
			return thrift.PrependError("field 2:output elem: ", err)
		}
	}
	if err := oprot.WriteListEnd(ctx); err != nil {
		return thrift.PrependError("error writing list end: ", err)
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeString(ctx, oprot, "error", 3, p.Error); err != nil {
		return err
	}
	return writeStructEnd(ctx, oprot)
}

// execResult wraps the reply as field 0, the way generated service results do.
type execResult struct {
	Success *ExecReply
}

func (p *execResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		if id != 0 || typeId != thrift.STRUCT {
			return false, nil
		}
		p.Success = NewExecReply()
		return true, p.Success.Read(ctx, iprot)
	})
}

func (p *execResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "exec_result"); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T write struct begin error: ", p), err)
	}
	if p.Success != nil {
		if err := oprot.WriteFieldBegin(ctx, "success", thrift.STRUCT, 0); err != nil {
			return thrift.PrependError("write field begin error 0:success: ", err)
		}
		if err := p.Success.Write(ctx, oprot); err != nil {
			return thrift.PrependError(fmt.Sprintf("%T error writing struct: ", p.Success), err)
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	return writeStructEnd(ctx, oprot)
}

// readStruct drives the field loop; field reports whether it consumed the
// field, unknown fields are skipped.
func readStruct(ctx context.Context, iprot thrift.TProtocol, field func(id int16, typeId thrift.TType) (bool, error)) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError("read struct begin error: ", err)
	}
	for {
		_, typeId, id, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("field %d read error: ", id), err)
		}
		if typeId == thrift.STOP {
			break
		}
		done, err := field(id, typeId)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("field %d read error: ", id), err)
		}
		if !done {
			if err := iprot.Skip(ctx, typeId); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError("read struct end error: ", err)
	}
	return nil
}

func readStringList(ctx context.Context, iprot thrift.TProtocol) ([]string, error) {
	_, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading list begin: ", err)
	}
	values := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := iprot.ReadString(ctx)
		if err != nil {
			return nil, thrift.PrependError("error reading list elem: ", err)
		}
		values = append(values, v)
	}
	if err := iprot.ReadListEnd(ctx); err != nil {
		return nil, thrift.PrependError("error reading list end: ", err)
	}
	return values, nil
}

func writeString(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v string) error {
	if err := oprot.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field begin error %d:%v: ", id, name), err)
	}
	if err := oprot.WriteString(ctx, v); err != nil {
		return thrift.PrependError(fmt.Sprintf("field %d:%v: ", id, name), err)
	}
	return oprot.WriteFieldEnd(ctx)
}

func writeStructEnd(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return thrift.PrependError("write field stop error: ", err)
	}
	if err := oprot.WriteStructEnd(ctx); err != nil {
		return thrift.PrependError("write struct stop error: ", err)
	}
	return nil
}
