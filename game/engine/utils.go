package engine

// Bounds returns the inclusive bounding box of the level's tiles. The
// second return is false for a level with no tiles.
func (l *Level) Bounds() (min, max Position, ok bool) {
	first := true
	for pos := range l.tiles {
		if first {
			min, max = pos, pos
			first = false
			continue
		}
		if pos.X < min.X {
			min.X = pos.X
		}
		if pos.Y < min.Y {
			min.Y = pos.Y
		}
		if pos.X > max.X {
			max.X = pos.X
		}
		if pos.Y > max.Y {
			max.Y = pos.Y
		}
	}
	return min, max, !first
}

// Render draws the level as ASCII rows using the layout characters, with
// spaces for void. Used by the analyze CLI and MCP text responses.
func (l *Level) Render() []string {
	min, max, ok := l.Bounds()
	if !ok {
		return nil
	}

	chars := map[TileKind]byte{
		TileBasic:     '.',
		TileWall:      '#',
		TileIce:       'I',
		TileRotateCW:  'R',
		TileRotateCCW: 'L',
		TileFinish:    'F',
	}
	startChars := map[Rotation]byte{
		Rot0:   'E',
		Rot90:  'S',
		Rot180: 'W',
		Rot270: 'N',
	}

	rows := make([]string, 0, max.Y-min.Y+1)
	for y := min.Y; y <= max.Y; y++ {
		row := make([]byte, max.X-min.X+1)
		for x := min.X; x <= max.X; x++ {
			tile, ok := l.At(Position{X: x, Y: y})
			switch {
			case !ok:
				row[x-min.X] = ' '
			case tile.Kind == TileStart:
				row[x-min.X] = startChars[tile.Facing]
			default:
				row[x-min.X] = chars[tile.Kind]
			}
		}
		rows = append(rows, string(row))
	}
	return rows
}

// RenderWithPlayers draws the level with player markers overlaid. Each
// player is drawn as an arrow for its facing: > faces +x, v +y, < -x,
// ^ -y. Players off the grid are not drawn.
func (l *Level) RenderWithPlayers(players []Player) []string {
	rows := l.Render()
	min, _, ok := l.Bounds()
	if !ok {
		return rows
	}

	arrows := map[Rotation]byte{
		Rot0:   '>',
		Rot90:  'v',
		Rot180: '<',
		Rot270: '^',
	}

	for _, p := range players {
		y := p.Position.Y - min.Y
		x := p.Position.X - min.X
		if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
			continue
		}
		row := []byte(rows[y])
		row[x] = arrows[p.Rotation]
		rows[y] = string(row)
	}
	return rows
}
