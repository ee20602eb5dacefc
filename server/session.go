package server

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/evt"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/protocol"
)

const lineDelimiter = '\n'

// serve runs one client session: the first line is the client identifier, every further line a request
func (s *Server) serve(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()

	ctx, logger := log.NewCtx(ctx, logger().WithFields(logrus.Fields{
		"session_id": uuid.NewString(),
		"remote":     log.Obfuscate(remote),
	}))

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic while serving connection: %v", r)
		}
	}()

	defer conn.Close()

	evt.Bus().Publish(evt.ConnectionOpened, remote)
	defer evt.Bus().Publish(evt.ConnectionClosed, remote)

	scanner := bufio.NewScanner(conn)
	writer := bufio.NewWriter(conn)

	if !scanner.Scan() {
		logger.Debug("connection closed before client identification")

		return
	}

	clientID := scanner.Text()
	ctx, logger = log.CtxWithFields(ctx, logrus.Fields{"client_id": log.Obfuscate(clientID)})

	logger.Debug("session started")

	for scanner.Scan() {
		request := &model.Request{
			ClientID:  clientID,
			Domain:    scanner.Text(),
			RequestTS: time.Now(),
		}

		line := s.respond(ctx, request)

		if _, err := writer.WriteString(line); err != nil {
			logger.Debugf("can't write response: %v", err)

			return
		}

		if err := writer.WriteByte(lineDelimiter); err != nil {
			logger.Debugf("can't write response: %v", err)

			return
		}

		if err := writer.Flush(); err != nil {
			logger.Debugf("can't write response: %v", err)

			return
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Debugf("session aborted: %v", err)

		return
	}

	logger.Debug("session closed by client")
}

func (s *Server) respond(ctx context.Context, request *model.Request) string {
	logger := log.FromCtx(ctx)

	response, err := s.responder.Respond(ctx, request)
	if err != nil {
		logger.Errorf("can't answer request '%s': %v", log.EscapeInput(request.Domain), err)

		return protocol.InvalidRequestLine
	}

	logger.WithFields(logrus.Fields{
		"domain":        log.EscapeInput(request.Domain),
		"response_type": response.RType,
		"reason":        response.Reason,
	}).Trace("request answered")

	return response.Line
}
