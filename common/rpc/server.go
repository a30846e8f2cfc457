package rpc

import (
	"net"

	"github.com/apache/thrift/lib/go/thrift"
)

type Server struct {
	socket *thrift.TServerSocket
	srv    *thrift.TSimpleServer
}

// NewServer prepares a framed binary-protocol server on addr. Call Listen to
// bind early, Serve to accept connections.
func NewServer(addr string, handler Handler, conf *thrift.TConfiguration) (*Server, error) {
	socket, err := thrift.NewTServerSocketTimeout(addr, conf.GetSocketTimeout())
	if err != nil {
		return nil, PrependRPCError(err)
	}
	transFactory := thrift.NewTFramedTransportFactoryConf(thrift.NewTBufferedTransportFactory(8192), conf)
	protoFactory := thrift.NewTBinaryProtocolFactoryConf(conf)
	return &Server{
		socket: socket,
		srv:    thrift.NewTSimpleServer4(NewProcessor(handler), socket, transFactory, protoFactory),
	}, nil
}

func (s *Server) Listen() error {
	return s.socket.Listen()
}

// Addr is the bound address once Listen succeeded.
func (s *Server) Addr() net.Addr {
	return s.socket.Addr()
}

// Serve blocks accepting connections until Stop.
func (s *Server) Serve() error {
	return s.srv.Serve()
}

func (s *Server) Stop() error {
	return s.srv.Stop()
}
