package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/mdbgo/mdbsql"
)

// Server is a TCP server that exposes read-only SQL access to one MDB
// database. The Connection serializes engine access internally, so
// concurrent client queries execute one at a time.
type Server struct {
	listener   net.Listener
	conn       *mdbsql.Connection
	authConfig *AuthConfig
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a server over an open connection. authConfig may be
// nil to disable authentication.
func NewServer(conn *mdbsql.Connection, authConfig *AuthConfig) *Server {
	return &Server{
		conn:       conn,
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("mdbsql server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// One request per line
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if lower := strings.ToLower(line); lower == "quit" || lower == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		switch {
		case strings.HasPrefix(strings.ToUpper(line), "AUTH "):
			response = s.handleAuth(line, state)

		case s.requireAuth(state):
			response = Response{
				Success: false,
				Error:   "authentication required: send AUTH JWT <token>",
			}

		case strings.EqualFold(line, "TABLES"):
			response = s.listTables()

		default:
			response = s.executeRequest(line)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// requireAuth reports whether this connection still needs to
// authenticate before issuing queries.
func (s *Server) requireAuth(state *ConnectionState) bool {
	if s.authConfig == nil || !s.authConfig.Enabled {
		return false
	}
	if !state.authenticated {
		return true
	}
	return !state.tokenExpiry.IsZero() && time.Now().After(state.tokenExpiry)
}

func (s *Server) listTables() Response {
	names, err := s.conn.TableNames()
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	data, _ := json.Marshal(TablesResponse{Tables: names})
	return Response{
		Success: true,
		Type:    "tables",
		Result:  data,
	}
}

// executeRequest accepts either a JSON request line or a bare SQL query.
func (s *Server) executeRequest(line string) Response {
	query := line
	if strings.HasPrefix(line, "{") {
		req, err := DecodeRequest([]byte(line))
		if err != nil {
			return Response{Success: false, Error: fmt.Sprintf("invalid request: %v", err)}
		}
		query = req.Query
	}

	start := time.Now()

	cursor, err := s.conn.Prepare(query)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	cols := cursor.Columns()
	columns := make([]string, len(cols))
	for i, c := range cols {
		columns[i] = c.Name
	}

	var rows [][]string
	for row := range cursor.Rows() {
		cells := make([]string, row.Len())
		for i := range cells {
			cells[i], _ = row.Value(i)
		}
		rows = append(rows, cells)
	}

	qr := QueryResponse{
		Columns:     columns,
		Data:        rows,
		RecordsRead: len(rows),
		TimeMs:      float64(time.Since(start).Microseconds()) / 1000,
	}
	data, _ := json.Marshal(qr)
	return Response{
		Success: true,
		Type:    "query",
		Result:  data,
	}
}
