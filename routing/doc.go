// Package routing implements a best-effort routing oracle for the mesh
// relay engine: choose_next_hop(final_recipient, available_peers,
// priority).
//
// The oracle maintains a directed graph of observed, neighbor-reported
// links and a per-link quality score (an exponential moving average of
// send success), adapting the teacher's Kademlia k-bucket routing table
// to a small mesh topology graph instead of an XOR-distance DHT. Its
// decisions are advisory: topology is eventually consistent and the
// relay engine tolerates the oracle's absence or indecision by falling
// back to any available peer that is not the inbound peer.
package routing
