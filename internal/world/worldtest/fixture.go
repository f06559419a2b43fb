// Package worldtest holds snapshot fixtures shared by package tests.
package worldtest

// Snapshot is a small rescue world: three nodes, two roads stored in both directions, one of
// them uncertain, and agents stacked on b0-0.
const Snapshot = `{
    "domain": "roborescue",
    "objects": {
        "building": {
            "b0-0": {"known": {}, "unknown": {}},
            "b2-1": {"known": {"buried": true}, "unknown": {}}
        },
        "hospital": {
            "h1-0": {}
        },
        "medic": {
            "medic1": {"at": [true, "b0-0"], "empty": true}
        },
        "police": {
            "police1": {"at": [true, "b0-0"]}
        },
        "civilian": {
            "civ1": {
                "known": {"alive": true},
                "unknown": {"at": {"actual": [true, "b2-1"]}, "buriedness": {"min": 0, "max": 50, "actual": 10}}
            }
        }
    },
    "graph": {
        "edges": {
            "b0-0 h1-0": {"known": {"distance": 10, "edge": true, "blocked-edge": false}, "unknown": {}},
            "h1-0 b0-0": {"known": {"distance": 10, "edge": true, "blocked-edge": false}, "unknown": {}},
            "b2-1 h1-0": {
                "known": {"distance": 20},
                "unknown": {"edge": {"actual": false}, "blocked-edge": {"actual": true}, "blockedness": {"min": 0, "max": 100, "actual": 30}}
            },
            "h1-0 b2-1": {
                "known": {"distance": 20},
                "unknown": {"edge": {"actual": false}, "blocked-edge": {"actual": true}, "blockedness": {"min": 0, "max": 100, "actual": 30}}
            }
        }
    }
}`
