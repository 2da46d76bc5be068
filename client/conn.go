package client

import (
	cmn "github.com/tendermint/tendermint/libs/common"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// DefaultRPCAddr is where a locally running node serves its RPC.
const DefaultRPCAddr = "http://localhost:26657"

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{
		conn:       conn,
		subscriber: "quorumclient-" + cmn.RandStr(8),
	}
}

// Dial returns a client for the node serving RPC at remote. An address
// without a scheme is dialed over tcp. Subscriptions go through the
// node's websocket endpoint.
func Dial(remote string) *Client {
	if remote == "" {
		remote = DefaultRPCAddr
	}
	return NewClient(rpcclient.NewHTTP(remote, "/websocket"))
}

// InProcess returns a client calling directly into a node running in
// this process.
func InProcess(node *nm.Node) *Client {
	return NewClient(rpcclient.NewLocal(node))
}
